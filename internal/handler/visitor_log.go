package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xuhuan/visitor-management/internal/auth"
	"github.com/xuhuan/visitor-management/internal/middleware"
	"github.com/xuhuan/visitor-management/internal/model"
	"github.com/xuhuan/visitor-management/internal/queue"
	"github.com/xuhuan/visitor-management/internal/repository"
	queue_publisher "github.com/xuhuan/visitor-management/internal/service"
	"github.com/xuhuan/visitor-management/internal/utils"
)

// logTimeFormat is the timestamp representation stored in visit logs
// and carried in activity events.
const logTimeFormat = time.RFC3339

// VisitorLogHandler bundles dependencies for gate check-in/check-out.
// Successful operations publish an activity event for the audit
// consumer; publication is best-effort and never fails the request.
type VisitorLogHandler struct {
	Logs *repository.VisitorLogRepo
}

func NewVisitorLogHandler(l *repository.VisitorLogRepo) *VisitorLogHandler {
	return &VisitorLogHandler{Logs: l}
}

type checkInReq struct {
	LogID  string `json:"log_id"`
	RefNum string `json:"ref_num"`
}

type checkOutReq struct {
	LogID string `json:"log_id"`
}

// CheckIn opens a gate log for a visitor. Security or admin. Reused
// log ids are rejected forever, even across different visitors.
func (h *VisitorLogHandler) CheckIn(c echo.Context) error {
	uid, role, ok := middleware.CallerIdentity(c)
	if !ok || auth.Decide(role, auth.ActionLogCheckIn) != auth.Allow {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("only gate staff may check visitors in")})
	}
	var req checkInReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.LogID) == "" || strings.TrimSpace(req.RefNum) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("log_id and ref_num required")})
	}
	now := time.Now().UTC().Format(logTimeFormat)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	err := h.Logs.CheckIn(ctx, model.VisitorLog{
		LogID:       strings.TrimSpace(req.LogID),
		RefNum:      strings.TrimSpace(req.RefNum),
		CheckInTime: now,
		UserID:      uid,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"message": utils.Flavor("log ID already exists")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "check-in failed"})
	}

	h.publish(queue.VisitorActivityEvent{
		Action: queue.ActionCheckIn, LogID: req.LogID, RefNum: req.RefNum, StaffID: uid, At: now,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "visitor checked in at " + now})
}

// CheckOut stamps the check-out time on an existing log. Security or
// admin. Checking out an already-closed log overwrites the previous
// timestamp; the contract does not order it against check-in.
func (h *VisitorLogHandler) CheckOut(c echo.Context) error {
	uid, role, ok := middleware.CallerIdentity(c)
	if !ok || auth.Decide(role, auth.ActionLogCheckOut) != auth.Allow {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("only gate staff may check visitors out")})
	}
	var req checkOutReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.LogID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": utils.Flavor("log_id required")})
	}
	now := time.Now().UTC().Format(logTimeFormat)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Logs.CheckOut(ctx, strings.TrimSpace(req.LogID), now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("log does not exist")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "check-out failed"})
	}

	h.publish(queue.VisitorActivityEvent{
		Action: queue.ActionCheckOut, LogID: req.LogID, StaffID: uid, At: now,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "visitor checked out at " + now})
}

// FindVisitorLog returns all log records matching the id. Security or
// admin.
func (h *VisitorLogHandler) FindVisitorLog(c echo.Context) error {
	_, role, ok := middleware.CallerIdentity(c)
	if !ok || auth.Decide(role, auth.ActionLogFind) != auth.Allow {
		return c.JSON(http.StatusForbidden, echo.Map{"message": utils.Flavor("only gate staff may view logs")})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	logs, err := h.Logs.Find(ctx, c.Param("log_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": utils.Flavor("log does not exist")})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, logs)
}

// publish ships the event on a detached context so a slow broker does
// not hold the HTTP response open.
func (h *VisitorLogHandler) publish(ev queue.VisitorActivityEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		if err := queue_publisher.PublishVisitorActivity(ctx, ev); err != nil {
			log.Printf("visit-log: publish %s event failed: %v", ev.Action, err)
		}
	}()
}
