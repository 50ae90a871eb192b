package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"udhar-ledger/internal/domain/decision"
	"udhar-ledger/internal/domain/errs"
	"udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/domain/notify"
	"udhar-ledger/internal/domain/uow"
	"udhar-ledger/internal/usecase/storeerr"
	"udhar-ledger/pkg/id"
)

type Usecase struct {
	uow      uow.UnitOfWork
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, n notify.Notifier, log *zap.Logger) *Usecase {
	if n == nil {
		n = notify.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, notifier: n, log: log, now: time.Now}
}

// WithClock replaces time.Now; used by tests.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Approve(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	return u.decide(ctx, in, loan.StateApproved)
}

func (u *Usecase) Reject(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	return u.decide(ctx, in, loan.StateRejected)
}

type recipient struct{ email, phone string }

func (u *Usecase) decide(ctx context.Context, in DecideInput, target loan.State) (*DecisionDTO, error) {
	if u.uow == nil {
		return nil, errors.New("approval: unit of work not configured")
	}
	var (
		dto *DecisionDTO
		to  recipient
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		admin, err := r.Users.GetByUserID(ctx, in.AdminID)
		if err != nil {
			return storeerr.Map(err, "user", in.AdminID)
		}
		if !admin.IsAdmin {
			return errs.ErrForbidden
		}

		at := u.now().UTC()
		if err := l.Decide(target, at); err != nil {
			return err
		}

		if _, err := r.Decisions.GetByLoanID(ctx, l.ID); err == nil {
			return errs.Transition("loan %s already has a decision", l.LoanID)
		} else if !storeerr.IsNotFound(err) {
			return err
		}

		d := &decision.Decision{
			DecisionID: id.NewID32(),
			LoanID:     l.ID,
			AdminID:    admin.ID,
			Outcome:    target,
			Note:       strings.TrimSpace(in.Note),
			DecidedAt:  at,
		}
		if err := r.Decisions.Create(ctx, d); err != nil {
			if storeerr.IsDuplicate(err) {
				return errs.Transition("loan %s already has a decision", l.LoanID)
			}
			return fmt.Errorf("insert decision: %w", err)
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("update loan: %w", err)
		}

		if owner, err := r.Users.GetByID(ctx, l.UserID); err == nil {
			to.email = owner.EmailAddress()
		}
		to.phone = l.Phone
		dto = &DecisionDTO{
			DecisionID: d.DecisionID,
			LoanID:     l.LoanID,
			Outcome:    string(d.Outcome),
			Note:       d.Note,
			DecidedBy:  admin.UserID,
			DecidedAt:  d.DecidedAt,
		}
		return nil
	})
	if err != nil {
		if storeerr.IsNotFound(err) {
			return nil, errs.NotFound("loan", in.LoanID)
		}
		return nil, err
	}

	u.log.Info("loan decided",
		zap.String("loan_id", dto.LoanID),
		zap.String("outcome", dto.Outcome),
		zap.String("admin", dto.DecidedBy),
	)
	subject := "Loan " + dto.Outcome
	body := fmt.Sprintf("Your loan %s has been %s.", dto.LoanID, dto.Outcome)
	if dto.Note != "" {
		body += " Note: " + dto.Note
	}
	if to.email != "" {
		ok := u.notifier.Notify(ctx, notify.ChannelEmail, to.email, subject, body)
		u.log.Info("notification", zap.String("channel", "email"), zap.Bool("delivered", ok))
	}
	if to.phone != "" {
		ok := u.notifier.Notify(ctx, notify.ChannelSMS, to.phone, subject, body)
		u.log.Info("notification", zap.String("channel", "sms"), zap.Bool("delivered", ok))
	}
	return dto, nil
}
