package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// Repos binds every repository to db, which may be a transaction.
func Repos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:     &UserRepository{db: db},
		Loans:     &LoanRepository{db: db},
		Payments:  &PaymentRepository{db: db},
		Decisions: &DecisionRepository{db: db},
		Settings:  &SettingRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
