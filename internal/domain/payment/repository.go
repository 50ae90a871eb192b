package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	// ListByLoanID returns the full history of a loan, oldest first.
	ListByLoanID(ctx context.Context, loanNumericID uint64) ([]Payment, error)
}
