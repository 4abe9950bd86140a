package handler

import (
	"net/http"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/middleware"
	"github.com/circlehub/circlehub-backend/internal/service"
	"github.com/circlehub/circlehub-backend/internal/ws"
	"github.com/gin-gonic/gin"
)

// FriendHandler REST surface for the social graph
type FriendHandler struct {
	friendSvc service.FriendService
	registry  ws.Registry
}

// NewFriendHandler creates a new FriendHandler
func NewFriendHandler(friendSvc service.FriendService, registry ws.Registry) *FriendHandler {
	return &FriendHandler{friendSvc: friendSvc, registry: registry}
}

// SendRequest handles POST /friends/requests. A request answering an
// existing reverse request resolves straight to friendship, so the
// caller gets told which of the two transitions actually happened.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req domain.SendFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	senderID := middleware.GetUserID(c)
	outcome, err := h.friendSvc.SendRequest(senderID, req.TargetID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	switch outcome {
	case service.OutcomeAccepted:
		h.registry.SendToUsers([]string{senderID, req.TargetID}, ws.EvFriendAccepted, gin.H{
			"user_id":   senderID,
			"friend_id": req.TargetID,
		})
	default:
		h.registry.SendToUser(req.TargetID, ws.EvFriendRequest, gin.H{
			"sender_id":    senderID,
			"display_name": middleware.GetDisplayName(c),
		})
	}
	common.CreatedResponse(c, gin.H{"outcome": outcome})
}

// Respond handles POST /friends/requests/:senderID/respond
func (h *FriendHandler) Respond(c *gin.Context) {
	var req domain.RespondFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	receiverID := middleware.GetUserID(c)
	senderID := c.Param("senderID")

	outcome, err := h.friendSvc.Respond(receiverID, senderID, req.Accept)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	if outcome == service.OutcomeAccepted {
		h.registry.SendToUsers([]string{receiverID, senderID}, ws.EvFriendAccepted, gin.H{
			"user_id":   receiverID,
			"friend_id": senderID,
		})
	} else {
		h.registry.SendToUser(senderID, ws.EvFriendDeclined, gin.H{
			"receiver_id": receiverID,
		})
	}
	common.SuccessResponse(c, gin.H{"outcome": outcome}, nil)
}

// ListFriends handles GET /friends
func (h *FriendHandler) ListFriends(c *gin.Context) {
	friends, err := h.friendSvc.Friends(middleware.GetUserID(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, friends, nil)
}

// ListRequests handles GET /friends/requests
func (h *FriendHandler) ListRequests(c *gin.Context) {
	reqs, err := h.friendSvc.ListRequests(middleware.GetUserID(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, reqs, nil)
}
