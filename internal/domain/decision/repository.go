package decision

import "context"

type Repository interface {
	Create(ctx context.Context, d *Decision) error

	// GetByLoanID looks up the decision for a loan's numeric id.
	GetByLoanID(ctx context.Context, loanNumericID uint64) (*Decision, error)

	GetByDecisionID(ctx context.Context, decisionID string) (*Decision, error)
}
