package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"udhar-ledger/internal/domain/payment"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]payment.Payment, error) {
	var out []payment.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("paid_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
