package loan

import (
	"time"

	"udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/domain/upload"
)

type SubmitInput struct {
	BorrowerName string   `json:"borrower_name" form:"borrower_name" validate:"required,max=120"`
	FatherName   string   `json:"father_name" form:"father_name" validate:"max=120"`
	Phone        string   `json:"phone" form:"phone" validate:"required,max=32"`
	CNIC         string   `json:"cnic" form:"cnic" validate:"required,max=32"`
	Address      string   `json:"address" form:"address"`
	Principal    float64  `json:"principal" form:"principal" validate:"gt=0,dec2"`
	InterestRate *float64 `json:"interest_rate" form:"interest_rate" validate:"omitempty,gte=0"`
	Days         int      `json:"days" form:"days" validate:"gt=0"`
	Installments int      `json:"installments" form:"installments" validate:"gte=0,lte=12"`

	UserImage *upload.File `json:"-" form:"-"`
	CNICImage *upload.File `json:"-" form:"-"`
}

type LoanDTO struct {
	LoanID          string             `json:"loan_id"`
	BorrowerName    string             `json:"borrower_name"`
	FatherName      string             `json:"father_name,omitempty"`
	Phone           string             `json:"phone"`
	CNIC            string             `json:"cnic"`
	Address         string             `json:"address,omitempty"`
	UserImagePath   string             `json:"user_image_path,omitempty"`
	CNICImagePath   string             `json:"cnic_image_path,omitempty"`
	Principal       float64            `json:"principal"`
	InterestRate    float64            `json:"interest_rate"`
	Days            int                `json:"days"`
	TotalPayable    float64            `json:"total_payable"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"payment_status"`
	DueDate         string             `json:"due_date"`
	ReceiptNo       string             `json:"receipt_no,omitempty"`
	InstallmentPlan []loan.Installment `json:"installment_plan,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// DateLayout renders date-only fields.
const DateLayout = "2006-01-02"

func ToDTO(l *loan.Loan) LoanDTO {
	dto := LoanDTO{
		LoanID:          l.LoanID,
		BorrowerName:    l.BorrowerName,
		FatherName:      l.FatherName,
		Phone:           l.Phone,
		CNIC:            l.CNIC,
		Address:         l.Address,
		UserImagePath:   l.UserImagePath,
		CNICImagePath:   l.CNICImagePath,
		Principal:       l.Principal,
		InterestRate:    l.InterestRate,
		Days:            l.Days,
		TotalPayable:    l.TotalPayable,
		Status:          string(l.Status),
		PaymentStatus:   string(l.PaymentStatus),
		DueDate:         l.DueDate.UTC().Format(DateLayout),
		InstallmentPlan: l.InstallmentPlan,
		CreatedAt:       l.CreatedAt,
	}
	if l.ReceiptNo != nil {
		dto.ReceiptNo = *l.ReceiptNo
	}
	return dto
}

func toDTOs(ls []loan.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, ToDTO(&ls[i]))
	}
	return out
}
