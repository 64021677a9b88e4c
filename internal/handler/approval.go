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

// ApprovalHandler bundles dependencies for self-registration and the
// security review queue.
type ApprovalHandler struct {
	Pending    *repository.PendingRepo
	BcryptCost int
}

func NewApprovalHandler(p *repository.PendingRepo, bcryptCost int) *ApprovalHandler {
	return &ApprovalHandler{Pending: p, BcryptCost: bcryptCost}
}

// RegisterPendingUser queues a public self-registration for security
// review. The record always enters with approve=false and role
// resident, whatever the request claimed.
func (h *ApprovalHandler) RegisterPendingUser(c echo.Context) error {
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

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	err = h.Pending.Create(ctx, model.PendingUser{
		UserID: req.UserID, PasswordHash: hash,
		Name: req.Name, Unit: req.Unit, Phone: req.Phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"message": utils.Flavor("user ID already exists")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create pending user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": req.UserID + " registered, waiting for approval by security",
	})
}

// ReviewRequests lists every registration awaiting approval. Security
// only.
func (h *ApprovalHandler) ReviewRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	pending, err := h.Pending.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if len(pending) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "no pending registrations"})
	}
	return c.JSON(http.StatusOK, pending)
}

// UpdateApproval migrates one pending registration into the active
// account store. Security only. The migration is atomic: on any
// failure the pending record stays exactly as it was.
func (h *ApprovalHandler) UpdateApproval(c echo.Context) error {
	userID := c.Param("user_id")
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	u, err := h.Pending.Approve(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("no pending registration for that user ID")})
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusConflict, echo.Map{"message": utils.Flavor("an active account already uses that user ID")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "approval failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": u.UserID + " approved and activated"})
}
