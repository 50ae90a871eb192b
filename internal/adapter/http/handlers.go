package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	now func() time.Time
}

func NewHandler() *Handler { return &Handler{now: time.Now} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   h.now().UTC().Format(time.RFC3339Nano),
	})
}
