package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"udhar-ledger/internal/calculator"
	"udhar-ledger/internal/domain/errs"
	"udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/domain/notify"
	"udhar-ledger/internal/domain/payment"
	"udhar-ledger/internal/domain/uow"
	"udhar-ledger/internal/domain/user"
	"udhar-ledger/internal/usecase/storeerr"
	"udhar-ledger/pkg/id"
	"udhar-ledger/pkg/receipt"
)

type Usecase struct {
	uow      uow.UnitOfWork
	receipts receipt.Generator
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, receipts receipt.Generator, n notify.Notifier, log *zap.Logger) *Usecase {
	if n == nil {
		n = notify.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, receipts: receipts, notifier: n, log: log, now: time.Now}
}

// WithClock replaces time.Now; used by tests.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func authorize(ctx context.Context, users user.Repository, actorID string, l *loan.Loan) (*user.User, error) {
	actor, err := users.GetByUserID(ctx, actorID)
	if err != nil {
		return nil, storeerr.Map(err, "user", actorID)
	}
	if l.UserID != actor.ID && !actor.IsAdmin {
		return nil, errs.ErrForbidden
	}
	return actor, nil
}

// RecordPayment stores one payment and recomputes the loan's payment status
// from its full payment history.
func (u *Usecase) RecordPayment(ctx context.Context, in RecordInput) (*ResultDTO, error) {
	in.Method = strings.TrimSpace(in.Method)
	if in.Amount <= 0 {
		return nil, errs.Validation("amount must be > 0")
	}
	if in.Method == "" {
		return nil, errs.Validation("payment method is required")
	}

	var (
		res    *ResultDTO
		owner  *user.User
		loaded *loan.Loan
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if _, err := authorize(ctx, r.Users, in.ActorID, l); err != nil {
			return err
		}
		if err := l.CheckPayable(); err != nil {
			return err
		}

		p := &payment.Payment{
			PaymentID: id.NewID32(),
			LoanID:    l.ID,
			Amount:    in.Amount,
			Method:    in.Method,
			Receipt:   u.receipts.Next(),
			PaidAt:    u.now().UTC(),
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		history, err := r.Payments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return fmt.Errorf("load payment history: %w", err)
		}
		amounts := make([]float64, len(history))
		for i := range history {
			amounts[i] = history[i].Amount
		}
		sum := calculator.Sum(amounts...)

		settled := calculator.Settled(sum, l.TotalPayable)
		if settled {
			l.PaymentStatus = loan.PaymentPaid
			rcpt := p.Receipt
			l.ReceiptNo = &rcpt
		} else {
			l.PaymentStatus = loan.PaymentPartiallyPaid
		}
		markInstallments(l, sum, settled)

		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("update loan: %w", err)
		}

		res = &ResultDTO{
			Payment:       toDTO(p),
			LoanID:        l.LoanID,
			PaymentStatus: string(l.PaymentStatus),
			TotalPayable:  l.TotalPayable,
			TotalPaid:     sum.Round(2).InexactFloat64(),
			Outstanding:   calculator.Outstanding(l.TotalPayable, sum),
		}
		if l.ReceiptNo != nil {
			res.ReceiptNo = *l.ReceiptNo
		}
		if o, err := r.Users.GetByID(ctx, l.UserID); err == nil {
			owner = o
		}
		loaded = l
		return nil
	})
	if err != nil {
		return nil, mapErr(err, in.LoanID)
	}

	u.log.Info("payment recorded",
		zap.String("loan_id", res.LoanID),
		zap.String("receipt", res.Payment.Receipt),
		zap.Float64("amount", res.Payment.Amount),
		zap.String("payment_status", res.PaymentStatus),
	)
	msg := fmt.Sprintf("Payment of %.2f received for loan %s (receipt %s). Outstanding %.2f.",
		res.Payment.Amount, res.LoanID, res.Payment.Receipt, res.Outstanding)
	if owner != nil && owner.EmailAddress() != "" {
		ok := u.notifier.Notify(ctx, notify.ChannelEmail, owner.EmailAddress(), "Payment received", msg)
		u.log.Info("notification", zap.String("channel", "email"), zap.Bool("delivered", ok))
	}
	ok := u.notifier.Notify(ctx, notify.ChannelSMS, loaded.Phone, "Payment received", msg)
	u.log.Info("notification", zap.String("channel", "sms"), zap.Bool("delivered", ok))
	return res, nil
}

// markInstallments flags the leading installments covered by paid. A settled
// loan has every installment paid, whatever the rounding drift of the shares.
func markInstallments(l *loan.Loan, paid decimal.Decimal, settled bool) {
	if len(l.InstallmentPlan) == 0 {
		return
	}
	covered := len(l.InstallmentPlan)
	if !settled {
		amounts := make([]float64, len(l.InstallmentPlan))
		for i, inst := range l.InstallmentPlan {
			amounts[i] = inst.Amount
		}
		covered = calculator.CoveredInstallments(amounts, paid)
	}
	plan := make([]loan.Installment, len(l.InstallmentPlan))
	copy(plan, l.InstallmentPlan)
	for i := range plan {
		plan[i].Paid = i < covered
	}
	l.InstallmentPlan = plan
}

// ListPayments returns the payment history of a loan, oldest first, to its
// owner or an administrator.
func (u *Usecase) ListPayments(ctx context.Context, actorID, loanID string) ([]PaymentDTO, error) {
	var out []PaymentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, r.Users, actorID, l); err != nil {
			return err
		}
		history, err := r.Payments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		out = make([]PaymentDTO, 0, len(history))
		for i := range history {
			out = append(out, toDTO(&history[i]))
		}
		return nil
	})
	if err != nil {
		return nil, mapErr(err, loanID)
	}
	return out, nil
}

// mapErr turns the unit of work's raw missing-loan error into errs.ErrNotFound.
func mapErr(err error, loanID string) error {
	if storeerr.IsNotFound(err) {
		return errs.NotFound("loan", loanID)
	}
	return err
}
