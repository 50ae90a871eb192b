package approval

import (
	"time"
)

type DecideInput struct {
	LoanID  string `json:"-"`
	AdminID string `json:"-"`
	Note    string `json:"note" validate:"max=500"`
}

type DecisionDTO struct {
	DecisionID string    `json:"decision_id"`
	LoanID     string    `json:"loan_id"`
	Outcome    string    `json:"outcome"`
	Note       string    `json:"note,omitempty"`
	DecidedBy  string    `json:"decided_by"`
	DecidedAt  time.Time `json:"decided_at"`
}
