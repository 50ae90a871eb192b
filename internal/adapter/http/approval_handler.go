package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"udhar-ledger/internal/adapter/middleware"
	"udhar-ledger/internal/usecase/approval"
)

type ApprovalHandler struct {
	responder
	uc     *approval.Usecase
	events EventRecorder
}

func NewApprovalHandler(uc *approval.Usecase, events EventRecorder, log *zap.Logger) *ApprovalHandler {
	if events == nil {
		events = nopEvents{}
	}
	return &ApprovalHandler{responder: newResponder(log), uc: uc, events: events}
}

func (h *ApprovalHandler) ApproveLoan(c echo.Context) error {
	return h.decide(c, h.uc.Approve, "approved")
}

func (h *ApprovalHandler) RejectLoan(c echo.Context) error {
	return h.decide(c, h.uc.Reject, "rejected")
}

type decideFunc func(ctx context.Context, in approval.DecideInput) (*approval.DecisionDTO, error)

func (h *ApprovalHandler) decide(c echo.Context, fn decideFunc, event string) error {
	// Validate path param
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	// The note is optional; an empty body binds to nothing.
	var req approval.DecideInput
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.LoanID = loanID
	req.AdminID = middleware.UserID(c)

	dto, err := fn(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	h.events.LedgerEvent(event)
	return c.JSON(http.StatusOK, dto)
}
