package uowmock

import (
	"context"
	"errors"
	"testing"

	"udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/domain/uow"
	"udhar-ledger/internal/testutil/loanmock"
)

func TestUoW_Unimplemented(t *testing.T) {
	m := New()
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLoanTx(context.Background(), "x", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLoanTx: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough_LoadsLoan(t *testing.T) {
	want := &loan.Loan{LoanID: "LN-1"}
	repos := uow.Repos{Loans: &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, id string) (*loan.Loan, error) {
			if id != "LN-1" {
				t.Fatalf("loan id = %q", id)
			}
			return want, nil
		},
	}}
	var got *loan.Loan
	err := Passthrough(repos).WithinLoanTx(context.Background(), "LN-1", func(_ uow.Repos, l *loan.Loan) error {
		got = l
		return nil
	})
	if err != nil || got != want {
		t.Fatalf("got (%v, %v)", got, err)
	}
}
