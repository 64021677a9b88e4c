package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xuhuan/visitor-management/internal/auth"
	"github.com/xuhuan/visitor-management/internal/middleware"
	"github.com/xuhuan/visitor-management/internal/repository"
	"github.com/xuhuan/visitor-management/internal/utils"
)

// PassHandler issues QR gate passes from visitor records. Two paths
// share the same record: the authenticated link path, which never
// mutates anything, and the public retrieval path, which consumes the
// single-use pass flag.
type PassHandler struct {
	Visitors *repository.VisitorRepo
}

func NewPassHandler(v *repository.VisitorRepo) *PassHandler {
	return &PassHandler{Visitors: v}
}

// CreateQRVisitor returns a viewable QR link for a visitor whose pass
// is still valid. Any authenticated role may call it; the pass flag is
// left untouched so the link can be regenerated until the visitor
// collects the real pass at the gate.
func (h *PassHandler) CreateQRVisitor(c echo.Context) error {
	_, role, ok := middleware.CallerIdentity(c)
	if !ok || auth.Decide(role, auth.ActionPassIssue) == auth.Deny {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("you are not allowed to issue passes")})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	v, err := h.Visitors.GetByIC(ctx, c.Param("IC_num"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("no such visitor or pass status false")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if !v.Pass {
		return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("no such visitor or pass status false")})
	}
	link, err := utils.QRLink(utils.PassLinkPayload{Unit: v.Unit, Pass: v.Pass})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "encode QR failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "pass for " + v.Name, "qr": link})
}

// RetrievePass is the public single-use retrieval path. The pass flag
// is claimed by one atomic conditional update before the image is
// rendered, so of any number of simultaneous retrievals for the same
// visitor exactly one receives the PNG. The rest, and every attempt
// after, get the consumed answer even though the visitor record still
// exists.
func (h *PassHandler) RetrievePass(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	v, err := h.Visitors.ConsumePass(ctx, c.Param("IC_num"))
	if err != nil {
		if errors.Is(err, repository.ErrPassConsumed) || errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("no such visitor or pass status false")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "retrieve pass failed"})
	}
	png, err := utils.QRImage(utils.PassImagePayload{Unit: v.Unit, VisitDate: v.VisitDate, Pass: v.Pass})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "encode QR failed"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
