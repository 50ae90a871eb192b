package http

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"udhar-ledger/internal/adapter/export"
	"udhar-ledger/internal/adapter/middleware"
	loandomain "udhar-ledger/internal/domain/loan"
	"udhar-ledger/internal/usecase/payment"
)

type PaymentHandler struct {
	responder
	uc     *payment.Usecase
	events EventRecorder
}

func NewPaymentHandler(uc *payment.Usecase, events EventRecorder, log *zap.Logger) *PaymentHandler {
	if events == nil {
		events = nopEvents{}
	}
	return &PaymentHandler{responder: newResponder(log), uc: uc, events: events}
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var req payment.RecordInput
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.LoanID = c.Param("loan_id")
	req.ActorID = middleware.UserID(c)

	res, err := h.uc.RecordPayment(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	h.events.LedgerEvent("payment")
	if res.PaymentStatus == string(loandomain.PaymentPaid) {
		h.events.LedgerEvent("paid")
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	list, err := h.uc.ListPayments(c.Request().Context(), middleware.UserID(c), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *PaymentHandler) ExportPayments(c echo.Context) error {
	loanID := c.Param("loan_id")
	list, err := h.uc.ListPayments(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return h.fail(c, err)
	}
	return writeCSV(c, "payments_"+loanID+".csv", func(buf *bytes.Buffer) error {
		return export.WritePaymentsCSV(buf, loanID, list)
	})
}
