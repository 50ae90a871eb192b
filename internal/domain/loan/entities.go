package loan

import (
	"time"

	"udhar-ledger/internal/domain/errs"
)

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
)

// PaymentStatus tracks repayment progress independently of State.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

// Installment is one entry of the plan materialized at creation time.
type Installment struct {
	Number  int       `json:"inst_no"`
	DueDate time.Time `json:"due_date"`
	Amount  float64   `json:"amount"`
	Paid    bool      `json:"paid"`
}

type Loan struct {
	ID              uint64        `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string        `gorm:"column:loan_id;size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	UserID          uint64        `gorm:"column:user_id;not null;index:idx_loans_user_id" json:"-"`
	BorrowerName    string        `gorm:"column:borrower_name;size:120;not null" json:"borrower_name"`
	FatherName      string        `gorm:"column:father_name;size:120" json:"father_name"`
	Phone           string        `gorm:"column:phone;size:32;not null" json:"phone"`
	CNIC            string        `gorm:"column:cnic;size:32;not null" json:"cnic"`
	Address         string        `gorm:"column:address;type:text" json:"address"`
	UserImagePath   string        `gorm:"column:user_image_path;type:text" json:"user_image_path"`
	CNICImagePath   string        `gorm:"column:cnic_image_path;type:text" json:"cnic_image_path"`
	Principal       float64       `gorm:"column:principal;type:decimal(18,2);not null" json:"principal"`
	InterestRate    float64       `gorm:"column:interest_rate;type:decimal(8,6);not null" json:"interest_rate"`
	Days            int           `gorm:"column:days;not null" json:"days"`
	TotalPayable    float64       `gorm:"column:total_payable;type:decimal(18,2);not null" json:"total_payable"`
	Status          State         `gorm:"column:status;size:16;not null;index:idx_loans_due" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"column:payment_status;size:16;not null;index:idx_loans_due" json:"payment_status"`
	DueDate         time.Time     `gorm:"column:due_date;type:date;not null;index:idx_loans_due" json:"due_date"`
	ReceiptNo       *string       `gorm:"column:receipt_no;size:32" json:"receipt_no,omitempty"`
	InstallmentPlan []Installment `gorm:"column:installment_plan;type:text;serializer:json" json:"installment_plan,omitempty"`
	StatusUpdatedAt time.Time     `gorm:"column:status_updated_at" json:"status_updated_at"`
	CreatedAt       time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Decide moves a pending loan to approved or rejected. Both targets are terminal
// for the lifecycle axis.
func (l *Loan) Decide(target State, at time.Time) error {
	if target != StateApproved && target != StateRejected {
		return errs.Transition("unknown target state %q", target)
	}
	if l.Status != StatePending {
		return errs.Transition("loan %s is %s, not pending", l.LoanID, l.Status)
	}
	l.Status = target
	l.StatusUpdatedAt = at.UTC()
	return nil
}

// CheckPayable reports whether a payment may be recorded against the loan.
func (l *Loan) CheckPayable() error {
	if l.Status != StateApproved {
		return errs.Transition("loan %s is %s, payments need an approved loan", l.LoanID, l.Status)
	}
	if l.PaymentStatus == PaymentPaid {
		return errs.Transition("loan %s is already paid", l.LoanID)
	}
	return nil
}
