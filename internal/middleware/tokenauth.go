package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xuhuan/visitor-management/internal/token"
	"github.com/xuhuan/visitor-management/internal/utils"
)

// Context keys populated by TokenAuth for downstream handlers.
const (
	// CtxUserID holds the authenticated account's user_id (string).
	CtxUserID = "user_id"
	// CtxRole holds the authenticated account's auth.Role.
	CtxRole = "role"
	// CtxRawToken holds the raw bearer string, needed by logout to
	// revoke the exact token that authenticated the request.
	CtxRawToken = "raw_token"
)

// TokenAuth returns an Echo middleware that authenticates the bearer
// token on every request it wraps. Verification is delegated to the
// token service, which checks the revocation set before the signature.
// On success the caller's identity and role are stored in the context;
// on failure the request ends with 401 and a flavored message whose
// suffix identifies the actual reason.
func TokenAuth(svc *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			claims, err := svc.Verify(c.Request().Context(), raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized,
					echo.Map{"message": utils.Flavor(err.Error())})
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxRawToken, raw)
			return next(c)
		}
	}
}

// bearerToken extracts the token from the Authorization header. An
// absent or malformed header yields "", which Verify reports as a
// missing token.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
