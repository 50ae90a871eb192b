package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udhar-ledger/internal/domain/errs"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.Validation("principal must be > 0"), http.StatusUnprocessableEntity},
		{errs.Conflict("phone taken"), http.StatusConflict},
		{errs.Transition("loan is rejected"), http.StatusConflict},
		{errs.NotFound("loan", "x"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", errs.ErrForbidden), http.StatusForbidden},
		{errs.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, newResponder(nil).fail(c, errors.New("dial tcp 10.0.0.1: refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error)
}

func TestFail_RequestError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, newResponder(nil).fail(c, badRequest("invalid body")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid body")
}

func TestQueryInt(t *testing.T) {
	e := echo.New()
	newCtx := func(q string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, "/?"+q, nil), httptest.NewRecorder())
	}

	n, err := queryInt(newCtx(""), "within", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = queryInt(newCtx("within=-3"), "within", 0)
	require.NoError(t, err)
	assert.Equal(t, -3, n)

	_, err = queryInt(newCtx("within=soon"), "within", 0)
	var re *requestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.status)
}

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	e := echo.New()
	fixed := time.Date(2024, 3, 1, 8, 30, 0, 0, time.FixedZone("PKT", 5*3600))
	h := &Handler{now: func() time.Time { return fixed }}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.Health(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "2024-03-01T03:30:00Z", body.Time)
}
