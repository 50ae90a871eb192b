package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"udhar-ledger/internal/auth"
)

const ctxUserID = "user_id"

// AdminChecker reports whether the user currently holds admin rights.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireAuth accepts "Authorization: Bearer <token>" and stores the token's
// user id in the echo context.
func RequireAuth(jm *auth.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				token = ""
			}
			claims, err := jm.Validate(strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}
			c.Set(ctxUserID, claims.UserID)
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth. Admin rights are looked up on
// every request so a revoked admin loses access immediately.
func RequireAdmin(checker AdminChecker, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := UserID(c)
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": auth.ErrMissingToken.Error()})
			}
			ok, err := checker.IsAdmin(c.Request().Context(), uid)
			if err != nil {
				log.Warn("admin check failed", zap.String("user_id", uid), zap.Error(err))
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user id, or "" outside RequireAuth.
func UserID(c echo.Context) string {
	uid, _ := c.Get(ctxUserID).(string)
	return uid
}
