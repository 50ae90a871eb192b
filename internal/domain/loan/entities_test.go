package loan

import (
	"errors"
	"testing"
	"time"

	"udhar-ledger/internal/domain/errs"
)

func TestDecide_FromPending(t *testing.T) {
	for _, target := range []State{StateApproved, StateRejected} {
		l := &Loan{LoanID: "LN", Status: StatePending}
		at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		if err := l.Decide(target, at); err != nil {
			t.Fatalf("Decide(%s): %v", target, err)
		}
		if l.Status != target || !l.StatusUpdatedAt.Equal(at) {
			t.Fatalf("got status=%s updated=%v", l.Status, l.StatusUpdatedAt)
		}
	}
}

func TestDecide_OnlyOnce(t *testing.T) {
	for _, from := range []State{StateApproved, StateRejected} {
		for _, target := range []State{StateApproved, StateRejected} {
			l := &Loan{LoanID: "LN", Status: from}
			err := l.Decide(target, time.Now())
			if !errors.Is(err, errs.ErrInvalidTransition) {
				t.Fatalf("%s -> %s: err = %v, want ErrInvalidTransition", from, target, err)
			}
			if l.Status != from {
				t.Fatalf("status mutated to %s", l.Status)
			}
		}
	}
}

func TestDecide_UnknownTarget(t *testing.T) {
	l := &Loan{Status: StatePending}
	if err := l.Decide(StatePending, time.Now()); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckPayable(t *testing.T) {
	tests := []struct {
		name    string
		status  State
		payment PaymentStatus
		ok      bool
	}{
		{"pending", StatePending, PaymentUnpaid, false},
		{"rejected", StateRejected, PaymentUnpaid, false},
		{"approved unpaid", StateApproved, PaymentUnpaid, true},
		{"approved partial", StateApproved, PaymentPartiallyPaid, true},
		{"approved paid", StateApproved, PaymentPaid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Loan{Status: tt.status, PaymentStatus: tt.payment}).CheckPayable()
			if tt.ok && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !tt.ok && !errors.Is(err, errs.ErrInvalidTransition) {
				t.Fatalf("err = %v, want ErrInvalidTransition", err)
			}
		})
	}
}
