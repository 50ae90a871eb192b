package gormrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"udhar-ledger/internal/domain/decision"
	"udhar-ledger/internal/domain/loan"
)

func TestDecisionRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewDecisionRepository(db)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	l := seedLoan(t, db, makeLoan("LN-DEC", admin.ID, day(2025, 1, 1)))

	d := &decision.Decision{DecisionID: "D-1", LoanID: l.ID, AdminID: admin.ID, Outcome: loan.StateRejected, Note: "no guarantor", DecidedAt: time.Now().UTC()}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byLoan, err := repo.GetByLoanID(ctx, l.ID)
	if err != nil || byLoan.DecisionID != "D-1" || byLoan.Note != "no guarantor" {
		t.Fatalf("GetByLoanID = %+v, %v", byLoan, err)
	}
	byID, err := repo.GetByDecisionID(ctx, "D-1")
	if err != nil || byID.Outcome != loan.StateRejected {
		t.Fatalf("GetByDecisionID = %+v, %v", byID, err)
	}
	if _, err := repo.GetByDecisionID(ctx, "nope"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDecisionRepository_OnePerLoan(t *testing.T) {
	db := openTestDB(t)
	repo := NewDecisionRepository(db)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	l := seedLoan(t, db, makeLoan("LN-ONE", admin.ID, day(2025, 1, 1)))

	first := &decision.Decision{DecisionID: "D-1", LoanID: l.ID, AdminID: admin.ID, Outcome: loan.StateApproved, DecidedAt: time.Now().UTC()}
	second := &decision.Decision{DecisionID: "D-2", LoanID: l.ID, AdminID: admin.ID, Outcome: loan.StateRejected, DecidedAt: time.Now().UTC()}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, second); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("want ErrDuplicatedKey, got %v", err)
	}
}
