package payment

import (
	"time"

	"udhar-ledger/internal/domain/payment"
)

type RecordInput struct {
	LoanID  string  `json:"-"`
	ActorID string  `json:"-"`
	Amount  float64 `json:"amount" validate:"gt=0,dec2"`
	Method  string  `json:"method" validate:"required,max=64"`
}

type PaymentDTO struct {
	PaymentID string    `json:"payment_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Receipt   string    `json:"receipt"`
	PaidAt    time.Time `json:"paid_at"`
}

// ResultDTO is the loan's repayment position right after a payment.
type ResultDTO struct {
	Payment       PaymentDTO `json:"payment"`
	LoanID        string     `json:"loan_id"`
	PaymentStatus string     `json:"payment_status"`
	TotalPayable  float64    `json:"total_payable"`
	TotalPaid     float64    `json:"total_paid"`
	Outstanding   float64    `json:"outstanding"`
	ReceiptNo     string     `json:"receipt_no,omitempty"`
}

func toDTO(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		PaymentID: p.PaymentID,
		Amount:    p.Amount,
		Method:    p.Method,
		Receipt:   p.Receipt,
		PaidAt:    p.PaidAt,
	}
}
