package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	loanuc "udhar-ledger/internal/usecase/loan"
)

// WriteAgreementPDF renders the loan agreement for l. The CNIC is masked.
func WriteAgreementPDF(w io.Writer, l loanuc.LoanDTO) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Loan Agreement "+l.LoanID, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Loan Agreement", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 10)
	lines := []string{
		"Loan ID: " + l.LoanID,
		"Borrower Name: " + l.BorrowerName,
		"Father Name: " + l.FatherName,
		"CNIC: " + MaskCNIC(l.CNIC),
		"Loan Amount: PKR " + money(l.Principal),
		fmt.Sprintf("Interest Rate: %s%% per year, %d days", money(l.InterestRate*100), l.Days),
		"Total Payable: PKR " + money(l.TotalPayable),
		"Due Date: " + l.DueDate,
		"Status: " + l.Status,
	}
	for _, s := range lines {
		pdf.MultiCell(0, 7, s, "", "L", false)
	}

	if len(l.InstallmentPlan) > 0 {
		pdf.Ln(4)
		pdf.MultiCell(0, 7, "Installment Plan:", "", "L", false)
		for _, inst := range l.InstallmentPlan {
			pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s  PKR %s", inst.Number, inst.DueDate.Format(loanuc.DateLayout), money(inst.Amount)), "", "L", false)
		}
	}

	pdf.Ln(10)
	pdf.MultiCell(0, 7, "Terms & Conditions:", "", "L", false)
	pdf.MultiCell(0, 6, "1. Interest is simple interest on the principal for the stated number of days.", "", "L", false)
	pdf.MultiCell(0, 6, "2. The borrower agrees to repay the total payable by the due date.", "", "L", false)
	pdf.Ln(20)
	pdf.MultiCell(0, 7, "Signed: "+l.BorrowerName, "", "L", false)

	return pdf.Output(w)
}
