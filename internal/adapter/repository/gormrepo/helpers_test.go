package gormrepo

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/domain/user"
	"udhar-ledger/internal/testutil/dbtest"
	"udhar-ledger/pkg/id"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t)
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func seedUser(t *testing.T, db *gorm.DB, phone string) *user.User {
	t.Helper()
	u := &user.User{UserID: id.NewID32(), Name: "Borrower " + phone, Phone: phone, PasswordHash: "x"}
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func makeLoan(loanID string, owner uint64, due time.Time) *loan.Loan {
	return &loan.Loan{
		LoanID:          loanID,
		UserID:          owner,
		BorrowerName:    "Ali",
		Phone:           "03001234567",
		CNIC:            "3520212345671",
		Principal:       1000,
		InterestRate:    0.10,
		Days:            30,
		TotalPayable:    1008.22,
		Status:          loan.StatePending,
		PaymentStatus:   loan.PaymentUnpaid,
		DueDate:         due,
		StatusUpdatedAt: time.Now().UTC(),
	}
}

func seedLoan(t *testing.T, db *gorm.DB, l *loan.Loan) *loan.Loan {
	t.Helper()
	if err := NewLoanRepository(db).Create(context.Background(), l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}
