package decision

import (
	"time"

	"udhar-ledger/internal/domain/loan"
)

// Decision is the audit record of an administrator approving or rejecting a loan.
// The unique index on loan_id keeps it to one per loan.
type Decision struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	DecisionID string     `gorm:"column:decision_id;size:32;not null;uniqueIndex:ux_loan_decisions_decision_id"`
	LoanID     uint64     `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_decisions_loan_id"`
	AdminID    uint64     `gorm:"column:admin_id;not null"`
	Outcome    loan.State `gorm:"column:outcome;size:16;not null"`
	Note       string     `gorm:"column:note;type:text"`
	DecidedAt  time.Time  `gorm:"column:decided_at;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Decision) TableName() string { return "loan_decisions" }
