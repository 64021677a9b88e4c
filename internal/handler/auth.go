package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xuhuan/visitor-management/internal/auth"
	"github.com/xuhuan/visitor-management/internal/middleware"
	"github.com/xuhuan/visitor-management/internal/model"
	"github.com/xuhuan/visitor-management/internal/repository"
	"github.com/xuhuan/visitor-management/internal/token"
	"github.com/xuhuan/visitor-management/internal/utils"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for login and logout.
type AuthHandler struct {
	Users  *repository.UserRepo
	Tokens *token.Service
}

func NewAuthHandler(u *repository.UserRepo, t *token.Service) *AuthHandler {
	return &AuthHandler{Users: u, Tokens: t}
}

type loginReq struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// loginResp is the login contract: a welcome message, the session
// token and the caller's role. Admin logins additionally embed the
// resident host list so the admin console can render it without a
// second request.
type loginResp struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	Role    string       `json:"role"`
	Hosts   []model.User `json:"HostStoredInDatabase,omitempty"`
}

// Login verifies credentials and issues a session token. Both unknown
// user and wrong password answer 401 with a flavored message; the
// reason suffix still distinguishes them the way the original client
// expects.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("invalid request body")})
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("user_id and password required")})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": utils.Flavor("no such user ID found")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": utils.Flavor("wrong password, forgotten it?")})
	}

	role, err := auth.ParseRole(u.Role)
	if err != nil {
		// A row with a mangled role must not authenticate.
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("account role is not recognized")})
	}

	signed, err := h.Tokens.Issue(u.UserID, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "issue token failed"})
	}

	resp := loginResp{
		Message: u.UserID + " has logged in! Welcome " + u.Name + "!",
		Token:   signed,
		Role:    role.String(),
	}
	if role == auth.RoleAdmin {
		hosts, err := h.Users.ListResidents(ctx)
		if err == nil {
			resp.Hosts = hosts
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the exact token that authenticated this request.
// The route sits behind TokenAuth, so a second logout with the same
// token is rejected there with 401 before ever reaching this handler.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, _ := c.Get(middleware.CtxRawToken).(string)
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Tokens.Revoke(ctx, raw); err != nil {
		if errors.Is(err, token.ErrMissingToken) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": utils.Flavor("missing bearer token")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out, see you next time!"})
}
