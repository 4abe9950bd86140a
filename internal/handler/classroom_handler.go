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

// ClassroomHandler REST surface for the classroom request workflow
type ClassroomHandler struct {
	classroomSvc service.ClassroomService
	registry     ws.Registry
}

// NewClassroomHandler creates a new ClassroomHandler
func NewClassroomHandler(classroomSvc service.ClassroomService, registry ws.Registry) *ClassroomHandler {
	return &ClassroomHandler{classroomSvc: classroomSvc, registry: registry}
}

// Submit handles POST /classrooms/requests
func (h *ClassroomHandler) Submit(c *gin.Context) {
	var req domain.SubmitClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	record, err := h.classroomSvc.Submit(middleware.GetUserID(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.CreatedResponse(c, record)
}

// List handles GET /classrooms/requests. Members see their own
// proposals; admins see the full review queue.
func (h *ClassroomHandler) List(c *gin.Context) {
	role := middleware.GetRole(c)
	if role == domain.RoleAdmin || role == domain.RoleSuperadmin {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		records, meta, err := h.classroomSvc.ListAll(page, limit)
		if err != nil {
			common.FailFromError(c, err)
			return
		}
		common.SuccessResponse(c, records, meta)
		return
	}

	records, err := h.classroomSvc.ListOwn(middleware.GetUserID(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, records, nil)
}

// Approve handles POST /classrooms/requests/:id/approve (admin only).
// The provisioned room ID rides along on the requester's notification.
func (h *ClassroomHandler) Approve(c *gin.Context) {
	record, err := h.classroomSvc.Approve(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	h.registry.SendToUser(record.RequesterID, ws.EvClassroomApproved, gin.H{
		"request_id": record.ID,
		"group_id":   record.GroupID,
		"name":       record.Name,
	})
	common.SuccessResponse(c, record, nil)
}

// Decline handles POST /classrooms/requests/:id/decline (admin only)
func (h *ClassroomHandler) Decline(c *gin.Context) {
	// Notes are optional; an empty body is a decline without commentary.
	var req domain.DeclineClassroomRequest
	_ = c.ShouldBindJSON(&req)

	record, err := h.classroomSvc.Decline(c.Param("id"), middleware.GetUserID(c), req.Notes)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	h.registry.SendToUser(record.RequesterID, ws.EvClassroomDeclined, gin.H{
		"request_id": record.ID,
		"name":       record.Name,
		"notes":      record.AdminNotes,
	})
	common.SuccessResponse(c, record, nil)
}
