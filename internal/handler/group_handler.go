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

// GroupHandler REST surface for rooms, membership and room messages
type GroupHandler struct {
	groupSvc service.GroupService
	registry ws.Registry
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupSvc service.GroupService, registry ws.Registry) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc, registry: registry}
}

// Create handles POST /groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req domain.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	group, err := h.groupSvc.CreateGroup(middleware.GetUserID(c), &req, domain.GroupCommunity)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	h.registry.Broadcast(ws.EvGroupCreated, group)
	common.CreatedResponse(c, group)
}

// List handles GET /groups
func (h *GroupHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	groups, meta, err := h.groupSvc.ListGroups(page, limit)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, groups, meta)
}

// Get handles GET /groups/:id
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.groupSvc.GetGroup(c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, group, nil)
}

// Delete handles DELETE /groups/:id. Creator or superadmin only.
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.groupSvc.DeleteGroup(c.Param("id"), middleware.GetUserID(c)); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// Leave handles POST /groups/:id/leave
func (h *GroupHandler) Leave(c *gin.Context) {
	groupID := c.Param("id")
	userID := middleware.GetUserID(c)

	if err := h.groupSvc.Leave(groupID, userID); err != nil {
		common.FailFromError(c, err)
		return
	}

	members, err := h.groupSvc.MemberIDs(groupID)
	if err == nil {
		h.registry.SendToUsers(members, ws.EvGroupLeft, gin.H{
			"group_id": groupID,
			"user_id":  userID,
		})
	}
	common.SuccessResponse(c, gin.H{"left": true}, nil)
}

// SubmitJoinRequest handles POST /groups/:id/join-requests
func (h *GroupHandler) SubmitJoinRequest(c *gin.Context) {
	var req domain.SubmitJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	groupID := c.Param("id")
	userID := middleware.GetUserID(c)

	record, err := h.groupSvc.SubmitJoinRequest(groupID, userID, &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	if record.Status == domain.JoinApproved {
		h.notifyJoined(groupID, userID, c)
	}
	common.CreatedResponse(c, record)
}

// ListJoinRequests handles GET /groups/:id/join-requests. Group admins only.
func (h *GroupHandler) ListJoinRequests(c *gin.Context) {
	reqs, err := h.groupSvc.ListJoinRequests(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, reqs, nil)
}

// DecideJoinRequest handles POST /groups/:id/join-requests/:reqID/decision
func (h *GroupHandler) DecideJoinRequest(c *gin.Context) {
	var req domain.JoinDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	groupID := c.Param("id")
	record, err := h.groupSvc.DecideJoinRequest(groupID, c.Param("reqID"), req.Approve, middleware.GetUserID(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	// Approval announces the new member to the room; a decline posts
	// nothing; the requester just sees the updated status.
	if record.Status == domain.JoinApproved {
		h.notifyJoined(groupID, record.UserID, c)
	}
	common.SuccessResponse(c, record, nil)
}

// ListMessages handles GET /groups/:id/messages, the active view
func (h *GroupHandler) ListMessages(c *gin.Context) {
	msgs, err := h.groupSvc.ListActive(c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, msgs, nil)
}

// ListArchivedMessages handles GET /groups/:id/messages/archived
func (h *GroupHandler) ListArchivedMessages(c *gin.Context) {
	msgs, err := h.groupSvc.ListArchived(c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, msgs, nil)
}

// ArchiveMessage handles POST /groups/:id/messages/:msgID/archive.
// Live members get an archive event so clients can evict the message
// from their active view; re-archiving changes nothing.
func (h *GroupHandler) ArchiveMessage(c *gin.Context) {
	groupID := c.Param("id")
	messageID := c.Param("msgID")

	archived, err := h.groupSvc.ArchiveMessage(groupID, messageID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	if archived {
		members, err := h.groupSvc.MemberIDs(groupID)
		if err == nil {
			h.registry.SendToUsers(members, ws.EvMessageArchived, ws.ArchivedPayload{
				GroupID:   groupID,
				MessageID: messageID,
			})
		}
	}
	common.SuccessResponse(c, gin.H{"archived": true}, nil)
}

// notifyJoined tells the room's live connections about a new member
func (h *GroupHandler) notifyJoined(groupID, userID string, c *gin.Context) {
	members, err := h.groupSvc.MemberIDs(groupID)
	if err != nil {
		return
	}
	h.registry.SendToUsers(members, ws.EvGroupJoined, gin.H{
		"group_id": groupID,
		"user_id":  userID,
	})
}
