// Package export renders ledger records as CSV files and PDF agreements.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	loanuc "udhar-ledger/internal/usecase/loan"
	paymentuc "udhar-ledger/internal/usecase/payment"
)

var loanHeader = []string{
	"loan_id", "borrower_name", "father_name", "phone", "cnic", "principal",
	"interest_rate", "days", "total_payable", "status", "payment_status",
	"due_date", "receipt_no", "created_at",
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// WriteLoansCSV writes one row per loan. CNICs are masked.
func WriteLoansCSV(w io.Writer, loans []loanuc.LoanDTO) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(loanHeader); err != nil {
		return err
	}
	for _, l := range loans {
		row := []string{
			l.LoanID,
			l.BorrowerName,
			l.FatherName,
			l.Phone,
			MaskCNIC(l.CNIC),
			money(l.Principal),
			strconv.FormatFloat(l.InterestRate, 'f', -1, 64),
			strconv.Itoa(l.Days),
			money(l.TotalPayable),
			l.Status,
			l.PaymentStatus,
			l.DueDate,
			l.ReceiptNo,
			l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePaymentsCSV writes the payment history of one loan.
func WritePaymentsCSV(w io.Writer, loanID string, payments []paymentuc.PaymentDTO) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"loan_id", "payment_id", "amount", "method", "receipt", "paid_at"}); err != nil {
		return err
	}
	for _, p := range payments {
		row := []string{loanID, p.PaymentID, money(p.Amount), p.Method, p.Receipt, p.PaidAt.UTC().Format("2006-01-02T15:04:05Z")}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
