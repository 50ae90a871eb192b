// Package app wires configuration, storage and usecases into one process.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "udhar-ledger/internal/adapter/http"
	"udhar-ledger/internal/adapter/metrics"
	"udhar-ledger/internal/adapter/notify"
	"udhar-ledger/internal/adapter/repository/gormrepo"
	"udhar-ledger/internal/adapter/upload"
	"udhar-ledger/internal/auth"
	"udhar-ledger/internal/config"
	domainnotify "udhar-ledger/internal/domain/notify"
	"udhar-ledger/internal/infrastructure/cache"
	"udhar-ledger/internal/infrastructure/db"
	"udhar-ledger/internal/usecase/approval"
	"udhar-ledger/internal/usecase/identity"
	"udhar-ledger/internal/usecase/loan"
	"udhar-ledger/internal/usecase/payment"
	"udhar-ledger/internal/usecase/setting"
	"udhar-ledger/pkg/receipt"
)

type App struct {
	Config  *config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	Metrics *metrics.Metrics
	JWT     *auth.JWTManager

	Identity *identity.Usecase
	Loans    *loan.Usecase
	Payments *payment.Usecase
	Approval *approval.Usecase
	Settings *setting.Usecase
}

// Open connects the database and, when configured, redis, then wires the
// usecases. The schema is not touched; call Migrate for that.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	gdb, err := db.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		_ = db.Close(gdb)
		return nil, fmt.Errorf("open redis: %w", err)
	}
	if rdb == nil {
		log.Info("redis disabled, idempotency keys are ignored")
	}
	m := metrics.New()
	return Wire(cfg, log, gdb, rdb, m, notify.FromConfig(cfg, log, m)), nil
}

// Wire builds the usecases over already opened connections.
func Wire(cfg *config.Config, log *zap.Logger, gdb *gorm.DB, rdb *redis.Client, m *metrics.Metrics, n domainnotify.Notifier) *App {
	if log == nil {
		log = zap.NewNop()
	}
	repos := gormrepo.Repos(gdb)
	tx := gormrepo.NewGormUoW(gdb)
	settings := setting.NewUsecase(repos.Settings, repos.Users, cfg.DefaultInterestRate, log.Named("setting"))

	return &App{
		Config:   cfg,
		Log:      log,
		DB:       gdb,
		Redis:    rdb,
		Metrics:  m,
		JWT:      auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL()),
		Identity: identity.NewUsecase(repos.Users, log.Named("identity")),
		Loans: loan.NewUsecase(loan.Deps{
			Loans:    repos.Loans,
			Users:    repos.Users,
			Rates:    settings,
			Uploads:  upload.NewFSStore(cfg.UploadDir),
			Notifier: n,
			Logger:   log.Named("loan"),
		}),
		Payments: payment.NewUsecase(tx, receipt.NewRandom(cfg.ReceiptPrefix), n, log.Named("payment")),
		Approval: approval.NewUsecase(tx, n, log.Named("approval")),
		Settings: settings,
	}
}

// Migrate applies pending schema versions.
func (a *App) Migrate(ctx context.Context) ([]int, error) {
	return db.Migrate(ctx, a.DB, a.Log)
}

// Bootstrap makes sure at least one administrator exists.
func (a *App) Bootstrap(ctx context.Context) (*identity.UserDTO, error) {
	return a.Identity.EnsureAdmin(ctx, identity.AdminDefaults{
		Name:     a.Config.AdminName,
		Phone:    a.Config.AdminPhone,
		Email:    a.Config.AdminEmail,
		Password: a.Config.AdminPassword,
	})
}

func (a *App) Router() *echo.Echo {
	return httpadp.NewRouter(httpadp.RouterDeps{
		Identity: a.Identity,
		Loans:    a.Loans,
		Payments: a.Payments,
		Approval: a.Approval,
		Settings: a.Settings,
		JWT:      a.JWT,
		Redis:    a.Redis,
		IdempTTL: a.Config.IdempotencyTTL(),
		Metrics:  a.Metrics,
		Logger:   a.Log.Named("http"),
	})
}

func (a *App) Close() error {
	var errList []error
	if a.Redis != nil {
		errList = append(errList, a.Redis.Close())
	}
	errList = append(errList, db.Close(a.DB))
	return errors.Join(errList...)
}
