package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"udhar-ledger/internal/adapter/middleware"
	"udhar-ledger/internal/auth"
	"udhar-ledger/internal/usecase/identity"
)

type AuthHandler struct {
	responder
	users *identity.Usecase
	jwt   *auth.JWTManager
}

func NewAuthHandler(users *identity.Usecase, jwt *auth.JWTManager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{responder: newResponder(log), users: users, jwt: jwt}
}

type tokenResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      *identity.UserDTO `json:"user"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req identity.RegisterInput
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	dto, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req identity.LoginInput
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	dto, err := h.users.Authenticate(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	token, exp, err := h.jwt.Generate(dto.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token, ExpiresAt: exp, User: dto})
}

func (h *AuthHandler) Me(c echo.Context) error {
	dto, err := h.users.Get(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req identity.ChangePasswordInput
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	if err := h.users.ChangePassword(c.Request().Context(), middleware.UserID(c), req); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
