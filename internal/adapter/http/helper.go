package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"udhar-ledger/internal/domain/errs"
)

// EventRecorder counts ledger lifecycle events.
type EventRecorder interface {
	LedgerEvent(event string)
}

type nopEvents struct{}

func (nopEvents) LedgerEvent(string) {}

// requestError is a client error detected before reaching a usecase.
type requestError struct {
	status int
	resp   ErrorResponse
}

func (e *requestError) Error() string { return e.resp.Error }

func badRequest(msg string) error {
	return &requestError{status: http.StatusBadRequest, resp: ErrorResponse{Error: msg}}
}

// bindAndValidate decodes the body into dst and runs the struct validator.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return badRequest("invalid body")
	}
	if err := c.Validate(dst); err != nil {
		return &requestError{
			status: http.StatusUnprocessableEntity,
			resp:   ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)},
		}
	}
	return nil
}

// queryInt reads an integer query parameter, def when absent.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return n, nil
}

// statusFor maps ledger error kinds to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// responder writes error responses itself so the status is visible to the
// request logger and metrics middleware.
type responder struct {
	log *zap.Logger
}

func newResponder(log *zap.Logger) responder {
	if log == nil {
		log = zap.NewNop()
	}
	return responder{log: log}
}

func (r responder) fail(c echo.Context, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return c.JSON(re.status, re.resp)
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		r.log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(status, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}
