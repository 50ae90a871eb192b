package setting

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"udhar-ledger/internal/domain/errs"
	"udhar-ledger/internal/domain/setting"
	"udhar-ledger/internal/domain/user"
	"udhar-ledger/internal/usecase/storeerr"
)

type Usecase struct {
	settings setting.Repository
	users    user.Repository
	fallback float64
	log      *zap.Logger
}

// NewUsecase returns fallback as the default rate until one is stored.
func NewUsecase(settings setting.Repository, users user.Repository, fallback float64, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{settings: settings, users: users, fallback: fallback, log: log}
}

// DefaultInterestRate is the annual rate applied when a submission names none.
func (u *Usecase) DefaultInterestRate(ctx context.Context) (float64, error) {
	s, err := u.settings.Get(ctx, setting.KeyDefaultInterestRate)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return u.fallback, nil
		}
		return 0, err
	}
	rate, err := strconv.ParseFloat(s.Value, 64)
	if err != nil || rate < 0 {
		u.log.Warn("stored default interest rate is unusable, using fallback",
			zap.String("value", s.Value), zap.Float64("fallback", u.fallback))
		return u.fallback, nil
	}
	return rate, nil
}

func (u *Usecase) SetDefaultInterestRate(ctx context.Context, actorID string, rate float64) error {
	actor, err := u.users.GetByUserID(ctx, actorID)
	if err != nil {
		return storeerr.Map(err, "user", actorID)
	}
	if !actor.IsAdmin {
		return errs.ErrForbidden
	}
	if rate < 0 {
		return errs.Validation("interest rate must be >= 0, got %v", rate)
	}
	err = u.settings.Upsert(ctx, &setting.Setting{
		Key:       setting.KeyDefaultInterestRate,
		Value:     strconv.FormatFloat(rate, 'f', -1, 64),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("store default interest rate: %w", err)
	}
	u.log.Info("default interest rate changed", zap.String("actor", actorID), zap.Float64("rate", rate))
	return nil
}
