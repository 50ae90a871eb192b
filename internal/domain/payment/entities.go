package payment

import "time"

// Payment is immutable once written.
type Payment struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	PaymentID string    `gorm:"column:payment_id;size:32;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	LoanID    uint64    `gorm:"column:loan_id;not null;index:idx_payments_loan_id" json:"-"`
	Amount    float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Method    string    `gorm:"column:method;size:64;not null" json:"method"`
	Receipt   string    `gorm:"column:receipt;size:32;not null;uniqueIndex:ux_payments_receipt" json:"receipt"`
	PaidAt    time.Time `gorm:"column:paid_at;not null" json:"paid_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
