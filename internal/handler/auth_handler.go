package handler

import (
	"errors"
	"net/http"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/repository"
	"github.com/circlehub/circlehub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler mints development tokens. Production deployments consume
// tokens issued by the identity provider; this route is only mounted in
// dev/local environments.
type AuthHandler struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repository.UserRepository, jwtManager *jwt.Manager) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, jwtManager: jwtManager}
}

type devTokenRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// DevToken handles POST /auth/dev-token. An unknown user_id with a
// display name creates the account on the fly.
func (h *AuthHandler) DevToken(c *gin.Context) {
	var req devTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	var user *domain.User
	var err error

	if req.UserID != "" {
		user, err = h.userRepo.FindByID(req.UserID)
	}
	if user == nil || errors.Is(err, common.ErrUserNotFound) {
		if req.DisplayName == "" {
			common.ErrorResponse(c, http.StatusBadRequest, "display_name required for new accounts", nil)
			return
		}
		user = &domain.User{
			ID:          uuid.New().String(),
			DisplayName: req.DisplayName,
			Role:        domain.RoleMember,
			Status:      domain.UserActive,
		}
		if req.UserID != "" {
			user.ID = req.UserID
		}
		if err := h.userRepo.Create(user); err != nil {
			common.FailFromError(c, err)
			return
		}
	} else if err != nil {
		common.FailFromError(c, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.DisplayName, string(user.Role))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"token": token, "user": user.ToResponse()}, nil)
}
