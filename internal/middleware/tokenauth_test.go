package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuhuan/visitor-management/internal/auth"
	"github.com/xuhuan/visitor-management/internal/token"
)

// newAuthedServer builds an Echo instance with one protected endpoint
// that echoes back the identity TokenAuth stored in the context.
func newAuthedServer(svc *token.Service, roles ...auth.Role) *echo.Echo {
	e := echo.New()
	mws := []echo.MiddlewareFunc{TokenAuth(svc)}
	if len(roles) > 0 {
		mws = append(mws, RequireRole(roles...))
	}
	g := e.Group("", mws...)
	g.GET("/whoami", func(c echo.Context) error {
		uid, role, ok := CallerIdentity(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, echo.Map{"user_id": uid, "role": role.String()})
	})
	return e
}

func doGet(e *echo.Echo, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenAuthAllowsValidToken(t *testing.T) {
	svc := token.NewService("mw-test-secret", token.NewMemoryRevocations())
	raw, err := svc.Issue("guard07", auth.RoleSecurity)
	require.NoError(t, err)

	rec := doGet(newAuthedServer(svc), raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "guard07")
	assert.Contains(t, rec.Body.String(), "security")
}

func TestTokenAuthRejectsMissingAndMangled(t *testing.T) {
	svc := token.NewService("mw-test-secret", token.NewMemoryRevocations())
	e := newAuthedServer(svc)

	rec := doGet(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGet(e, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenAuthRejectsRevokedToken(t *testing.T) {
	svc := token.NewService("mw-test-secret", token.NewMemoryRevocations())
	raw, err := svc.Issue("guard07", auth.RoleSecurity)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(context.Background(), raw))

	rec := doGet(newAuthedServer(svc), raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}

func TestRequireRole(t *testing.T) {
	svc := token.NewService("mw-test-secret", token.NewMemoryRevocations())
	resident, err := svc.Issue("alice01", auth.RoleResident)
	require.NoError(t, err)
	admin, err := svc.Issue("boss", auth.RoleAdmin)
	require.NoError(t, err)

	e := newAuthedServer(svc, auth.RoleAdmin)

	rec := doGet(e, resident)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doGet(e, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}
