// Package errs holds the error kinds shared by every ledger operation.
// Callers wrap them with context and test them with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid phone/email or password")
)

// Validation reports missing or malformed input.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound reports a reference to a record that does not exist.
func NotFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
}

// Transition reports a state-machine violation.
func Transition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
