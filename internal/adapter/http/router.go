package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"udhar-ledger/internal/adapter/metrics"
	"udhar-ledger/internal/adapter/middleware"
	"udhar-ledger/internal/auth"
	"udhar-ledger/internal/usecase/approval"
	"udhar-ledger/internal/usecase/identity"
	"udhar-ledger/internal/usecase/loan"
	"udhar-ledger/internal/usecase/payment"
	"udhar-ledger/internal/usecase/setting"
)

// RouterDeps is everything the HTTP surface needs. Redis may be nil, which
// turns idempotency off.
type RouterDeps struct {
	Identity *identity.Usecase
	Loans    *loan.Usecase
	Payments *payment.Usecase
	Approval *approval.Usecase
	Settings *setting.Usecase
	JWT      *auth.JWTManager
	Redis    *redis.Client
	IdempTTL time.Duration
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

func NewRouter(d RouterDeps) *echo.Echo {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.Info("request", fields...)
			return nil
		},
	}))
	e.Use(m.Middleware())

	health := NewHandler()
	authH := NewAuthHandler(d.Identity, d.JWT, log)
	loanH := NewLoanHandler(d.Loans, m, log)
	payH := NewPaymentHandler(d.Payments, m, log)
	apprH := NewApprovalHandler(d.Approval, m, log)
	adminH := NewAdminHandler(d.Loans, d.Identity, d.Settings, log)

	e.GET("/health", health.Health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	e.POST("/auth/register", authH.Register)
	e.POST("/auth/login", authH.Login)

	idem := middleware.Idempotency(d.Redis, d.IdempTTL, log)
	authed := middleware.RequireAuth(d.JWT)
	e.GET("/me", authH.Me, authed)
	e.POST("/me/password", authH.ChangePassword, authed)
	e.POST("/loans", loanH.SubmitLoan, authed, idem)
	e.GET("/loans", loanH.ListMyLoans, authed)
	e.GET("/loans/export.csv", loanH.ExportMyLoans, authed)
	e.GET("/loans/:loan_id", loanH.GetLoan, authed)
	e.GET("/loans/:loan_id/agreement.pdf", loanH.Agreement, authed)
	e.POST("/loans/:loan_id/payments", payH.RecordPayment, authed, idem)
	e.GET("/loans/:loan_id/payments", payH.ListPayments, authed)
	e.GET("/loans/:loan_id/payments/export.csv", payH.ExportPayments, authed)

	admin := e.Group("/admin", authed, middleware.RequireAdmin(d.Identity, log))
	admin.GET("/loans", adminH.ListLoans)
	admin.POST("/loans/:loan_id/approve", apprH.ApproveLoan)
	admin.POST("/loans/:loan_id/reject", apprH.RejectLoan)
	admin.GET("/loans/due", adminH.DueLoans)
	admin.GET("/loans/due/export.csv", adminH.ExportDueLoans)
	admin.POST("/loans/due/reminders", adminH.SendDueReminders)
	admin.GET("/users", adminH.ListUsers)
	admin.POST("/users/:user_id/toggle-admin", adminH.ToggleAdmin)
	admin.GET("/settings/interest-rate", adminH.GetInterestRate)
	admin.PUT("/settings/interest-rate", adminH.SetInterestRate)

	return e
}
