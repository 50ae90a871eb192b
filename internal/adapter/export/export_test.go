package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udhar-ledger/internal/domain/loan"
	loanuc "udhar-ledger/internal/usecase/loan"
	paymentuc "udhar-ledger/internal/usecase/payment"
)

func TestMaskCNIC(t *testing.T) {
	assert.Equal(t, "35202-XXXXXXX-1", MaskCNIC("3520212345671"))
	assert.Equal(t, "12345-XXXXXXX-5", MaskCNIC("12345"))
	assert.Equal(t, "****", MaskCNIC("1234"))
	assert.Equal(t, "****", MaskCNIC(""))
}

func sampleLoan() loanuc.LoanDTO {
	return loanuc.LoanDTO{
		LoanID:        "LN-1",
		BorrowerName:  "Ali, Khan",
		Phone:         "0300",
		CNIC:          "3520212345671",
		Principal:     5000,
		InterestRate:  0.1,
		Days:          30,
		TotalPayable:  5041.1,
		Status:        "approved",
		PaymentStatus: "partially_paid",
		DueDate:       "2025-03-31",
		CreatedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		InstallmentPlan: []loan.Installment{
			{Number: 1, DueDate: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), Amount: 2520.55},
		},
	}
}

func TestWriteLoansCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLoansCSV(&buf, []loanuc.LoanDTO{sampleLoan()}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, loanHeader, rows[0])
	assert.Equal(t, "Ali, Khan", rows[1][1], "commas survive quoting")
	assert.Equal(t, "35202-XXXXXXX-1", rows[1][4])
	assert.Equal(t, "5041.10", rows[1][8])
	assert.Equal(t, "2025-03-01T12:00:00Z", rows[1][13])
}

func TestWritePaymentsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WritePaymentsCSV(&buf, "LN-1", []paymentuc.PaymentDTO{
		{PaymentID: "P1", Amount: 2000, Method: "cash", Receipt: "TXN-AAAAAAAAAA", PaidAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"LN-1", "P1", "2000.00", "cash", "TXN-AAAAAAAAAA", "2025-03-02T00:00:00Z"}, rows[1])
}

func TestWriteAgreementPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAgreementPDF(&buf, sampleLoan()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}
