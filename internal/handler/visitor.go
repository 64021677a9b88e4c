package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xuhuan/visitor-management/internal/auth"
	"github.com/xuhuan/visitor-management/internal/middleware"
	"github.com/xuhuan/visitor-management/internal/model"
	"github.com/xuhuan/visitor-management/internal/repository"
	"github.com/xuhuan/visitor-management/internal/utils"
)

// VisitorHandler bundles dependencies for the visitor registry. Every
// operation resolves its scope through the policy table first, so
// ownership restrictions are applied inside the repository queries.
type VisitorHandler struct {
	Visitors *repository.VisitorRepo
	Users    *repository.UserRepo
}

func NewVisitorHandler(v *repository.VisitorRepo, u *repository.UserRepo) *VisitorHandler {
	return &VisitorHandler{Visitors: v, Users: u}
}

type visitorReq struct {
	RefNum    string `json:"ref_num"`
	Name      string `json:"name"`
	ICNum     string `json:"IC_num"`
	CarNum    string `json:"car_num"`
	Phone     string `json:"phone"`
	Pass      bool   `json:"pass"`
	Category  string `json:"category"`
	VisitDate string `json:"visit_date"`
	Unit      string `json:"unit"`
}

func (r visitorReq) toModel() model.Visitor {
	return model.Visitor{
		RefNum: strings.TrimSpace(r.RefNum), Name: r.Name, ICNum: r.ICNum,
		CarNum: r.CarNum, Phone: r.Phone, Pass: r.Pass,
		Category: r.Category, VisitDate: r.VisitDate, Unit: r.Unit,
	}
}

// scopeOrDeny resolves the caller's scope for an action, answering the
// 403 itself when policy denies. The bool reports whether the handler
// may continue.
func scopeOrDeny(c echo.Context, action auth.Action) (auth.Scope, bool) {
	uid, role, ok := middleware.CallerIdentity(c)
	if !ok {
		return auth.Scope{}, false
	}
	scope, ok := auth.ScopeFor(role, action, uid)
	return scope, ok
}

// RegisterVisitor creates a visitor owned by the caller. Any
// authenticated role may register; a duplicate ref_num is rejected by
// the storage layer and leaves the original record unchanged.
func (h *VisitorHandler) RegisterVisitor(c echo.Context) error {
	uid, role, ok := middleware.CallerIdentity(c)
	if !ok || auth.Decide(role, auth.ActionVisitorRegister) == auth.Deny {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("you are not allowed to register visitors")})
	}
	var req visitorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("invalid request body")})
	}
	if violations := utils.ValidateVisitor(req.RefNum, req.Name, req.ICNum); len(violations) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message":    utils.Flavor("visitor registration rejected"),
			"violations": violations,
		})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Visitors.Create(ctx, req.toModel(), uid); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"message": utils.Flavor("visitor reference number already exists")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "register visitor failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "visitor " + strings.TrimSpace(req.RefNum) + " registered successfully"})
}

// FindVisitor returns one visitor by reference number. Residents only
// see their own registrations; the restriction rides inside the query,
// so a foreign ref_num looks identical to a missing one.
func (h *VisitorHandler) FindVisitor(c echo.Context) error {
	scope, ok := scopeOrDeny(c, auth.ActionVisitorFind)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("you are not allowed to view visitors")})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	v, err := h.Visitors.GetByRef(ctx, c.Param("ref_num"), scope)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("visitor does not exist")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// FindAllVisitors lists the whole registry. Admin only.
func (h *VisitorHandler) FindAllVisitors(c echo.Context) error {
	scope, ok := scopeOrDeny(c, auth.ActionVisitorListAll)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("you are not allowed to list all visitors")})
	}
	return h.list(c, scope)
}

// ResidentView lists the caller's own registrations. Residents only.
func (h *VisitorHandler) ResidentView(c echo.Context) error {
	scope, ok := scopeOrDeny(c, auth.ActionVisitorListOwn)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("this view is for residents")})
	}
	// List-own is Allow for residents; narrow it to the caller here.
	uid, _, _ := middleware.CallerIdentity(c)
	scope = auth.Scope{OwnerID: uid}
	return h.list(c, scope)
}

func (h *VisitorHandler) list(c echo.Context, scope auth.Scope) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	visitors, err := h.Visitors.List(ctx, scope)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("visitor does not exist")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, visitors)
}

// SecurityFind returns resident contact phones for a unit so the guard
// house can call the host. Security only.
func (h *VisitorHandler) SecurityFind(c echo.Context) error {
	_, role, ok := middleware.CallerIdentity(c)
	if !ok || auth.Decide(role, auth.ActionUnitPhoneFind) != auth.Allow {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("only security may look up unit phones")})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	residents, err := h.Users.FindPhonesByUnit(ctx, c.Param("unit"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("no resident found for that unit")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	type contact struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	out := make([]contact, 0, len(residents))
	for _, r := range residents {
		out = append(out, contact{Name: r.Name, Phone: r.Phone})
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateVisitor rewrites a visitor's fields. Admins update anyone;
// security and residents only records they own. A scoped miss is a
// no-op reported as not found.
func (h *VisitorHandler) UpdateVisitor(c echo.Context) error {
	scope, ok := scopeOrDeny(c, auth.ActionVisitorUpdate)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("you are not allowed to update visitors")})
	}
	var req visitorReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefNum) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("ref_num required")})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Visitors.Update(ctx, req.toModel(), scope); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("visitor does not exist")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update visitor failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "visitor " + strings.TrimSpace(req.RefNum) + " updated successfully"})
}

// DeleteVisitor removes a visitor within the caller's scope. A deleted
// count of zero answers not found.
func (h *VisitorHandler) DeleteVisitor(c echo.Context) error {
	scope, ok := scopeOrDeny(c, auth.ActionVisitorDelete)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("you are not allowed to delete visitors")})
	}
	var req struct {
		RefNum string `json:"ref_num"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefNum) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("ref_num required")})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Visitors.Delete(ctx, strings.TrimSpace(req.RefNum), scope); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("visitor does not exist")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete visitor failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "visitor " + strings.TrimSpace(req.RefNum) + " deleted successfully"})
}
