package errs

import (
	"errors"
	"testing"
)

func TestHelpersWrapSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"validation", Validation("phone is required"), ErrValidation},
		{"not found", NotFound("loan", "abc"), ErrNotFound},
		{"transition", Transition("loan is %s", "rejected"), ErrInvalidTransition},
		{"conflict", Conflict("phone %s", "0300"), ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.want) {
				t.Fatalf("errors.Is(%v, %v) = false", tc.err, tc.want)
			}
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	if got := NotFound("loan", "abc").Error(); got != "loan abc: not found" {
		t.Fatalf("message = %q", got)
	}
}
