package middleware

import (
	"errors"
	"strings"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract the token. Browser WebSocket clients cannot set
		// headers, so a token query parameter is accepted as fallback.
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			common.ErrorResponse(c, 401, "Missing authorization token", nil)
			c.Abort()
			return
		}

		// 2. Verify token
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		// 3. Store user info in context
		c.Set("userID", claims.UserID)
		c.Set("displayName", claims.DisplayName)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	if str, ok := userID.(string); ok {
		return str
	}
	return ""
}

// GetDisplayName extracts display name from context
func GetDisplayName(c *gin.Context) string {
	name, exists := c.Get("displayName")
	if !exists {
		return ""
	}
	if str, ok := name.(string); ok {
		return str
	}
	return ""
}

// GetRole extracts the account role from context
func GetRole(c *gin.Context) domain.Role {
	role, exists := c.Get("role")
	if !exists {
		return ""
	}
	if r, ok := role.(domain.Role); ok {
		return r
	}
	if str, ok := role.(string); ok {
		return domain.Role(str)
	}
	return ""
}
