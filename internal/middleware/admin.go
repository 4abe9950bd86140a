package middleware

import (
	"net/http"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// RequireAdmin checks that the authenticated user holds an admin role.
// Services re-check authority against the database; this gate only keeps
// plain members off the admin routes.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role != domain.RoleAdmin && role != domain.RoleSuperadmin {
			common.ErrorResponse(c, http.StatusForbidden, "admin privileges required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
