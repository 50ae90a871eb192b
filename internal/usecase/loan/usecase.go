package loan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"udhar-ledger/internal/calculator"
	"udhar-ledger/internal/domain/errs"
	"udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/domain/notify"
	"udhar-ledger/internal/domain/upload"
	"udhar-ledger/internal/domain/user"
	"udhar-ledger/internal/usecase/storeerr"
	"udhar-ledger/pkg/id"
)

// RateSource supplies the default annual rate for submissions without one.
type RateSource interface {
	DefaultInterestRate(ctx context.Context) (float64, error)
}

type Deps struct {
	Loans    loan.Repository
	Users    user.Repository
	Rates    RateSource
	Uploads  upload.Store
	Notifier notify.Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

type Usecase struct {
	loans    loan.Repository
	users    user.Repository
	rates    RateSource
	uploads  upload.Store
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(d Deps) *Usecase {
	u := &Usecase{
		loans:    d.Loans,
		users:    d.Users,
		rates:    d.Rates,
		uploads:  d.Uploads,
		notifier: d.Notifier,
		log:      d.Logger,
		now:      d.Now,
	}
	if u.notifier == nil {
		u.notifier = notify.Nop{}
	}
	if u.log == nil {
		u.log = zap.NewNop()
	}
	if u.now == nil {
		u.now = time.Now
	}
	return u
}

// MaxInstallments caps the repayment plan length.
const MaxInstallments = 12

// Today is the current UTC date at midnight.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateSubmit(in *SubmitInput) error {
	in.BorrowerName = strings.TrimSpace(in.BorrowerName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.CNIC = strings.TrimSpace(in.CNIC)
	switch {
	case in.BorrowerName == "":
		return errs.Validation("borrower name is required")
	case in.Phone == "":
		return errs.Validation("phone is required")
	case in.CNIC == "":
		return errs.Validation("cnic is required")
	case in.Principal <= 0:
		return errs.Validation("principal must be > 0")
	case in.Days <= 0:
		return errs.Validation("days must be > 0")
	case in.InterestRate != nil && *in.InterestRate < 0:
		return errs.Validation("interest rate must be >= 0")
	case in.Installments < 0 || in.Installments > MaxInstallments:
		return errs.Validation("installments must be between 0 and %d", MaxInstallments)
	}
	return nil
}

// Submit records a new application as pending and unpaid.
func (u *Usecase) Submit(ctx context.Context, ownerID string, in SubmitInput) (*LoanDTO, error) {
	if err := validateSubmit(&in); err != nil {
		return nil, err
	}
	owner, err := u.users.GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, storeerr.Map(err, "user", ownerID)
	}

	var rate float64
	if in.InterestRate != nil {
		rate = *in.InterestRate
	} else if rate, err = u.rates.DefaultInterestRate(ctx); err != nil {
		return nil, fmt.Errorf("resolve default interest rate: %w", err)
	}

	now := u.now().UTC()
	today := Today(now)
	l := &loan.Loan{
		LoanID:          id.NewID32(),
		UserID:          owner.ID,
		BorrowerName:    in.BorrowerName,
		FatherName:      strings.TrimSpace(in.FatherName),
		Phone:           in.Phone,
		CNIC:            in.CNIC,
		Address:         strings.TrimSpace(in.Address),
		Principal:       in.Principal,
		InterestRate:    rate,
		Days:            in.Days,
		TotalPayable:    calculator.TotalPayable(in.Principal, rate, in.Days),
		Status:          loan.StatePending,
		PaymentStatus:   loan.PaymentUnpaid,
		DueDate:         today.AddDate(0, 0, in.Days),
		StatusUpdatedAt: now,
	}
	if in.Installments > 1 {
		for _, inst := range calculator.Schedule(in.Principal, rate, in.Days, in.Installments, today) {
			l.InstallmentPlan = append(l.InstallmentPlan, loan.Installment{
				Number:  inst.Number,
				DueDate: inst.DueDate,
				Amount:  inst.Amount,
			})
		}
	}

	l.UserImagePath = u.store(ctx, "user_image", in.UserImage)
	l.CNICImagePath = u.store(ctx, "cnic_image", in.CNICImage)
	if err := u.loans.Create(ctx, l); err != nil {
		u.discard(ctx, l.UserImagePath, l.CNICImagePath)
		return nil, storeerr.Map(err, "loan", l.LoanID)
	}
	u.log.Info("loan submitted",
		zap.String("loan_id", l.LoanID),
		zap.String("user_id", owner.UserID),
		zap.Float64("total_payable", l.TotalPayable),
	)

	msg := fmt.Sprintf("Your loan application %s for %.2f was received. Total payable %.2f by %s.",
		l.LoanID, l.Principal, l.TotalPayable, l.DueDate.Format(DateLayout))
	u.notify(ctx, owner.EmailAddress(), l.Phone, "Loan application received", msg)

	dto := ToDTO(l)
	return &dto, nil
}

// store saves an optional upload. Failures leave the loan without the image.
func (u *Usecase) store(ctx context.Context, field string, f *upload.File) string {
	if f == nil || u.uploads == nil {
		return ""
	}
	path, err := u.uploads.Save(ctx, *f)
	if err != nil {
		u.log.Warn("upload failed, continuing without image",
			zap.String("field", field),
			zap.String("name", f.Name),
			zap.Error(err),
		)
		return ""
	}
	return path
}

// discard removes uploads whose loan was never stored.
func (u *Usecase) discard(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := u.uploads.Remove(ctx, p); err != nil {
			u.log.Warn("orphaned upload not removed", zap.String("path", p), zap.Error(err))
		}
	}
}

func (u *Usecase) notify(ctx context.Context, email, phone, subject, body string) {
	if email != "" {
		ok := u.notifier.Notify(ctx, notify.ChannelEmail, email, subject, body)
		u.log.Info("notification", zap.String("channel", "email"), zap.Bool("delivered", ok))
	}
	if phone != "" {
		ok := u.notifier.Notify(ctx, notify.ChannelSMS, phone, subject, body)
		u.log.Info("notification", zap.String("channel", "sms"), zap.Bool("delivered", ok))
	}
}

// Get returns a loan to its owner or to an administrator.
func (u *Usecase) Get(ctx context.Context, actorID, loanID string) (*LoanDTO, error) {
	l, _, err := u.loadVisible(ctx, actorID, loanID)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(l)
	return &dto, nil
}

func (u *Usecase) loadVisible(ctx context.Context, actorID, loanID string) (*loan.Loan, *user.User, error) {
	actor, err := u.users.GetByUserID(ctx, actorID)
	if err != nil {
		return nil, nil, storeerr.Map(err, "user", actorID)
	}
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, nil, storeerr.Map(err, "loan", loanID)
	}
	if l.UserID != actor.ID && !actor.IsAdmin {
		return nil, nil, errs.ErrForbidden
	}
	return l, actor, nil
}

func (u *Usecase) ListByUser(ctx context.Context, userID string) ([]LoanDTO, error) {
	owner, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeerr.Map(err, "user", userID)
	}
	ls, err := u.loans.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

// List returns every loan matching f; an empty filter matches all.
func (u *Usecase) List(ctx context.Context, f loan.Filter) ([]LoanDTO, error) {
	switch f.Status {
	case "", loan.StatePending, loan.StateApproved, loan.StateRejected:
	default:
		return nil, errs.Validation("unknown status %q", f.Status)
	}
	switch f.PaymentStatus {
	case "", loan.PaymentUnpaid, loan.PaymentPartiallyPaid, loan.PaymentPaid:
	default:
		return nil, errs.Validation("unknown payment status %q", f.PaymentStatus)
	}
	ls, err := u.loans.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

// ListDue returns approved loans not yet paid whose due date falls on or
// before today + withinDays.
func (u *Usecase) ListDue(ctx context.Context, withinDays int) ([]LoanDTO, error) {
	ls, err := u.due(ctx, withinDays)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

func (u *Usecase) due(ctx context.Context, withinDays int) ([]loan.Loan, error) {
	if withinDays < 0 {
		return nil, errs.Validation("window must be >= 0 days, got %d", withinDays)
	}
	cutoff := Today(u.now()).AddDate(0, 0, withinDays)
	return u.loans.ListDue(ctx, cutoff)
}

// SendDueReminders notifies the borrower of every due loan and returns how
// many loans were reminded. Delivery failures do not stop the run.
func (u *Usecase) SendDueReminders(ctx context.Context, withinDays int) (int, error) {
	ls, err := u.due(ctx, withinDays)
	if err != nil {
		return 0, err
	}
	for i := range ls {
		l := &ls[i]
		var email string
		if owner, err := u.users.GetByID(ctx, l.UserID); err == nil {
			email = owner.EmailAddress()
		} else {
			u.log.Warn("reminder: owner lookup failed", zap.String("loan_id", l.LoanID), zap.Error(err))
		}
		msg := fmt.Sprintf("Reminder: loan %s of %.2f is due on %s (status %s).",
			l.LoanID, l.TotalPayable, l.DueDate.Format(DateLayout), l.PaymentStatus)
		u.notify(ctx, email, l.Phone, "Loan payment reminder", msg)
	}
	u.log.Info("due reminders sent", zap.Int("loans", len(ls)), zap.Int("within_days", withinDays))
	return len(ls), nil
}
