package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/xuhuan/visitor-management/internal/auth"
	"github.com/xuhuan/visitor-management/internal/config"
	"github.com/xuhuan/visitor-management/internal/handler"
	"github.com/xuhuan/visitor-management/internal/middleware"
	"github.com/xuhuan/visitor-management/internal/token"
)

// Handlers groups every handler the router wires up. Built once in
// main and passed in whole so route registration stays a single
// readable listing.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Approval *handler.ApprovalHandler
	Visitors *handler.VisitorHandler
	Pass     *handler.PassHandler
	Logs     *handler.VisitorLogHandler
}

// Register wires the full route table. Paths follow the original
// client contract, so they live at the root rather than under a
// versioned prefix.
//
// Public routes (no token): login (rate limited), both registration
// paths, the single-use pass retrieval and the health check. Everything
// else sits behind TokenAuth; role gates narrow the admin, security and
// gate groups further. Ownership scoping happens inside the handlers
// via the policy table.
func Register(e *echo.Echo, h Handlers, tokens *token.Service, rdb *redis.Client) {
	e.Use(middleware.RequestID())

	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Public endpoints.
	e.POST("/login", h.Auth.Login, middleware.LoginRateLimit(config.LoadRateLimitConfig(), rdb))
	e.POST("/registerpendinguser", h.Approval.RegisterPendingUser)
	e.POST("/noapprovalcreate", h.Users.NoApprovalCreate)
	e.GET("/retrievepass/:IC_num", h.Pass.RetrievePass)

	// Everything below requires a valid, unrevoked token.
	authed := e.Group("", middleware.TokenAuth(tokens))
	authed.POST("/logout", h.Auth.Logout)

	// Visitor registry: any authenticated role may register and issue
	// QR links; finer decisions run through the policy table inside
	// the handlers.
	authed.POST("/registervisitor", h.Visitors.RegisterVisitor)
	authed.GET("/findvisitor/:ref_num", h.Visitors.FindVisitor)
	authed.PATCH("/updatevisitor", h.Visitors.UpdateVisitor)
	authed.DELETE("/deletevisitor", h.Visitors.DeleteVisitor)
	authed.GET("/createQRvisitor/:IC_num", h.Pass.CreateQRVisitor)

	// Admin-only account management and registry-wide listing.
	admin := authed.Group("", middleware.RequireRole(auth.RoleAdmin))
	admin.GET("/finduser/:user_id", h.Users.FindUser)
	admin.POST("/registeruser", h.Users.RegisterUser)
	admin.PATCH("/updateuser", h.Users.UpdateUser)
	admin.DELETE("/deleteuser", h.Users.DeleteUser)
	admin.GET("/findallvisitor", h.Visitors.FindAllVisitors)

	// Security-only review queue and unit phone lookup.
	security := authed.Group("", middleware.RequireRole(auth.RoleSecurity))
	security.GET("/reviewrequest", h.Approval.ReviewRequests)
	security.GET("/updateapproval/:user_id", h.Approval.UpdateApproval)
	security.GET("/securityfind/:unit", h.Visitors.SecurityFind)

	// Resident-only view of their own registrations.
	resident := authed.Group("", middleware.RequireRole(auth.RoleResident))
	resident.GET("/residentview", h.Visitors.ResidentView)

	// Gate operations: security or admin.
	gate := authed.Group("", middleware.RequireRole(auth.RoleSecurity, auth.RoleAdmin))
	gate.POST("/checkIn", h.Logs.CheckIn)
	gate.PATCH("/checkOut", h.Logs.CheckOut)
	gate.GET("/findvisitorlog/:log_id", h.Logs.FindVisitorLog)
}
