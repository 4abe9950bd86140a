package handler

import (
	"net/http"
	"strconv"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/middleware"
	"github.com/circlehub/circlehub-backend/internal/service"
	"github.com/circlehub/circlehub-backend/internal/ws"
	"github.com/gin-gonic/gin"
)

// AdminHandler REST surface for account administration and audit reads
type AdminHandler struct {
	adminSvc service.AdminService
	registry ws.Registry
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminSvc service.AdminService, registry ws.Registry) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, registry: registry}
}

type actionRequest struct {
	Details string `json:"details"`
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, meta, err := h.adminSvc.ListUsers(page, limit)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, users, meta)
}

// Suspend handles POST /admin/users/:id/suspend
func (h *AdminHandler) Suspend(c *gin.Context) {
	var req actionRequest
	_ = c.ShouldBindJSON(&req)

	targetID := c.Param("id")
	if err := h.adminSvc.Suspend(middleware.GetUserID(c), targetID, req.Details); err != nil {
		common.FailFromError(c, err)
		return
	}

	h.registry.Broadcast(ws.EvUserStatus, gin.H{
		"user_id": targetID,
		"status":  domain.UserSuspended,
	})
	common.SuccessResponse(c, gin.H{"status": domain.UserSuspended}, nil)
}

// Reinstate handles POST /admin/users/:id/reinstate
func (h *AdminHandler) Reinstate(c *gin.Context) {
	var req actionRequest
	_ = c.ShouldBindJSON(&req)

	targetID := c.Param("id")
	if err := h.adminSvc.Reinstate(middleware.GetUserID(c), targetID, req.Details); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"status": domain.UserActive}, nil)
}

// Delete handles DELETE /admin/users/:id. The account is retired, not
// erased; its rows stay behind for the audit trail.
func (h *AdminHandler) Delete(c *gin.Context) {
	var req actionRequest
	_ = c.ShouldBindJSON(&req)

	targetID := c.Param("id")
	if err := h.adminSvc.Delete(middleware.GetUserID(c), targetID, req.Details); err != nil {
		common.FailFromError(c, err)
		return
	}

	h.registry.Broadcast(ws.EvUserStatus, gin.H{
		"user_id": targetID,
		"status":  domain.UserDeleted,
	})
	common.SuccessResponse(c, gin.H{"status": domain.UserDeleted}, nil)
}

// UpdateRole handles PUT /admin/users/:id/role
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req domain.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.adminSvc.UpdateRole(middleware.GetUserID(c), c.Param("id"), req.Role); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"role": req.Role}, nil)
}

// ListAuditLog handles GET /admin/logs
func (h *AdminHandler) ListAuditLog(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, meta, err := h.adminSvc.ListAuditLog(page, limit)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, entries, meta)
}

// ListViolations handles GET /admin/violations
func (h *AdminHandler) ListViolations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	violations, meta, err := h.adminSvc.ListViolations(page, limit)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, violations, meta)
}
