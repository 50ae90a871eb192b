package http

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"udhar-ledger/internal/adapter/export"
	"udhar-ledger/internal/adapter/middleware"
	loandomain "udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/usecase/identity"
	"udhar-ledger/internal/usecase/loan"
	"udhar-ledger/internal/usecase/setting"
)

// AdminHandler serves the routes mounted behind RequireAdmin.
type AdminHandler struct {
	responder
	loans    *loan.Usecase
	users    *identity.Usecase
	settings *setting.Usecase
}

func NewAdminHandler(loans *loan.Usecase, users *identity.Usecase, settings *setting.Usecase, log *zap.Logger) *AdminHandler {
	return &AdminHandler{responder: newResponder(log), loans: loans, users: users, settings: settings}
}

// ListLoans accepts optional status and payment_status filters.
func (h *AdminHandler) ListLoans(c echo.Context) error {
	f := loandomain.Filter{
		Status:        loandomain.State(c.QueryParam("status")),
		PaymentStatus: loandomain.PaymentStatus(c.QueryParam("payment_status")),
	}
	list, err := h.loans.List(c.Request().Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) DueLoans(c echo.Context) error {
	within, err := queryInt(c, "within", 0)
	if err != nil {
		return h.fail(c, err)
	}
	list, err := h.loans.ListDue(c.Request().Context(), within)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) ExportDueLoans(c echo.Context) error {
	within, err := queryInt(c, "within", 0)
	if err != nil {
		return h.fail(c, err)
	}
	list, err := h.loans.ListDue(c.Request().Context(), within)
	if err != nil {
		return h.fail(c, err)
	}
	return writeCSV(c, "due_loans.csv", func(buf *bytes.Buffer) error {
		return export.WriteLoansCSV(buf, list)
	})
}

func (h *AdminHandler) SendDueReminders(c echo.Context) error {
	within, err := queryInt(c, "within", 0)
	if err != nil {
		return h.fail(c, err)
	}
	n, err := h.loans.SendDueReminders(c.Request().Context(), within)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"reminded": n, "within": within})
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	list, err := h.users.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) ToggleAdmin(c echo.Context) error {
	dto, err := h.users.ToggleAdmin(c.Request().Context(), middleware.UserID(c), c.Param("user_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type interestRateBody struct {
	Rate *float64 `json:"rate" validate:"required,gte=0"`
}

func (h *AdminHandler) GetInterestRate(c echo.Context) error {
	rate, err := h.settings.DefaultInterestRate(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]float64{"rate": rate})
}

func (h *AdminHandler) SetInterestRate(c echo.Context) error {
	var req interestRateBody
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	if err := h.settings.SetDefaultInterestRate(c.Request().Context(), middleware.UserID(c), *req.Rate); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]float64{"rate": *req.Rate})
}
