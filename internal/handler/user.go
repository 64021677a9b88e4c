package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xuhuan/visitor-management/internal/model"
	"github.com/xuhuan/visitor-management/internal/repository"
	"github.com/xuhuan/visitor-management/internal/utils"
)

// UserHandler bundles dependencies for admin account management and
// the public no-approval registration path.
type UserHandler struct {
	Users      *repository.UserRepo
	BcryptCost int
}

func NewUserHandler(u *repository.UserRepo, bcryptCost int) *UserHandler {
	return &UserHandler{Users: u, BcryptCost: bcryptCost}
}

// registerUserReq carries a full account registration. Role is only
// honored on the admin path; the public path pins it to resident.
type registerUserReq struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type updateUserReq struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Unit   string `json:"unit"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
}

type deleteUserReq struct {
	UserID string `json:"user_id"`
}

// FindUser returns one account by user_id. Admin only.
func (h *UserHandler) FindUser(c echo.Context) error {
	userID := c.Param("user_id")
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("user does not exist")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// RegisterUser creates an active account directly, bypassing the
// approval queue. Admin only; the role in the request is honored after
// validation.
func (h *UserHandler) RegisterUser(c echo.Context) error {
	return h.createUser(c, false)
}

// NoApprovalCreate is the public direct-creation path. Input passes the
// same validation as self-registration, and the role is pinned to
// resident since the caller is unauthenticated.
func (h *UserHandler) NoApprovalCreate(c echo.Context) error {
	return h.createUser(c, true)
}

func (h *UserHandler) createUser(c echo.Context, public bool) error {
	var req registerUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("invalid request body")})
	}
	req.UserID = strings.TrimSpace(req.UserID)

	if violations := utils.ValidateRegistration(req.UserID, req.Name, req.Unit, req.Phone, req.Password); len(violations) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message":    utils.Flavor("registration rejected"),
			"violations": violations,
		})
	}

	role := "resident"
	if !public {
		switch req.Role {
		case "admin", "security", "resident":
			role = req.Role
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("role must be admin, security or resident")})
		}
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	err = h.Users.Create(ctx, model.User{
		UserID: req.UserID, PasswordHash: hash,
		Name: req.Name, Unit: req.Unit, Phone: req.Phone, Role: role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"message": utils.Flavor("user ID already exists")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": req.UserID + " registered successfully"})
}

// UpdateUser rewrites an account's profile fields. Admin only.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req updateUserReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("user_id required")})
	}
	switch req.Role {
	case "admin", "security", "resident":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("role must be admin, security or resident")})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	err := h.Users.Update(ctx, model.User{
		UserID: req.UserID, Name: req.Name, Unit: req.Unit, Phone: req.Phone, Role: req.Role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("user does not exist")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": req.UserID + " updated successfully"})
}

// DeleteUser removes an account. Admin only; deleting a missing
// account reports not found rather than silently succeeding.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	var req deleteUserReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("user_id required")})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Users.Delete(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("user does not exist")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": req.UserID + " deleted successfully"})
}
