package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xuhuan/visitor-management/internal/auth"
	"github.com/xuhuan/visitor-management/internal/utils"
)

// RequireRole returns a middleware that admits only the listed roles.
// It assumes TokenAuth already stored an auth.Role in the context; a
// missing or unparsed role denies, never defaults. Fine-grained
// decisions (ownership scoping) still run through auth.Decide inside
// the handlers; this gate only rejects roles that could never reach
// an allow.
func RequireRole(roles ...auth.Role) echo.MiddlewareFunc {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(auth.Role)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden,
					echo.Map{"message": utils.Flavor("you are not allowed to perform this action")})
			}
			return next(c)
		}
	}
}

// CallerIdentity pulls the authenticated user_id and role out of the
// context. ok is false when TokenAuth did not run or stored malformed
// values, which handlers must treat as forbidden.
func CallerIdentity(c echo.Context) (string, auth.Role, bool) {
	uid, uok := c.Get(CtxUserID).(string)
	role, rok := c.Get(CtxRole).(auth.Role)
	return uid, role, uok && rok && uid != ""
}
