package loan

import (
	"context"
	"time"
)

// Filter narrows List. Zero values mean "any".
type Filter struct {
	Status        State
	PaymentStatus PaymentStatus
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row where the dialect supports it.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByUser(ctx context.Context, userID uint64) ([]Loan, error)
	List(ctx context.Context, f Filter) ([]Loan, error)
	// ListDue returns approved, not fully paid loans due on or before cutoff.
	ListDue(ctx context.Context, cutoff time.Time) ([]Loan, error)
}
