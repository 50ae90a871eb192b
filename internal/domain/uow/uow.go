package uow

import (
	"context"

	"udhar-ledger/internal/domain/decision"
	"udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/domain/payment"
	"udhar-ledger/internal/domain/setting"
	"udhar-ledger/internal/domain/user"
)

// Repos are bound to the same transaction.
type Repos struct {
	Users     user.Repository
	Loans     loan.Repository
	Payments  payment.Repository
	Decisions decision.Repository
	Settings  setting.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
