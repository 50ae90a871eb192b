package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"udhar-ledger/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loan.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loan.Loan, error) {
	var out loan.Loan
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByLoanIDForUpdate takes a row lock on dialects that have one. sqlite
// serializes writers on its own.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loan.Loan, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loan.Loan
	if err := q.Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID uint64) ([]loan.Loan, error) {
	var out []loan.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) List(ctx context.Context, f loan.Filter) ([]loan.Loan, error) {
	q := r.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	var out []loan.Loan
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListDue(ctx context.Context, cutoff time.Time) ([]loan.Loan, error) {
	var out []loan.Loan
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_status <> ? AND due_date <= ?",
			loan.StateApproved, loan.PaymentPaid, cutoff.UTC()).
		Order("due_date ASC, id ASC").
		Find(&out).Error
	return out, err
}
