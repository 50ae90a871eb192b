package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"udhar-ledger/internal/domain/decision"
)

type DecisionRepository struct{ db *gorm.DB }

func NewDecisionRepository(db *gorm.DB) *DecisionRepository { return &DecisionRepository{db: db} }

func (r *DecisionRepository) Create(ctx context.Context, d *decision.Decision) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DecisionRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*decision.Decision, error) {
	var out decision.Decision
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanNumericID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *DecisionRepository) GetByDecisionID(ctx context.Context, decisionID string) (*decision.Decision, error) {
	var out decision.Decision
	if err := r.db.WithContext(ctx).Where("decision_id = ?", decisionID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
