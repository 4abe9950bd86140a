package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/pkg/jwt"
	"github.com/circlehub/circlehub-backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func authTestRouter(mgr *jwt.Manager) *gin.Engine {
	router := gin.New()
	router.GET("/me", JWTAuth(mgr), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":      GetUserID(c),
			"display_name": GetDisplayName(c),
			"role":         GetRole(c),
		})
	})
	return router
}

func TestJWTAuth_BearerHeader(t *testing.T) {
	mgr := jwt.NewManager("test-secret", time.Hour)
	token, err := mgr.GenerateToken("u1", "Ada", "member")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authTestRouter(mgr).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	assert.Contains(t, w.Body.String(), `"display_name":"Ada"`)
}

func TestJWTAuth_QueryTokenFallback(t *testing.T) {
	mgr := jwt.NewManager("test-secret", time.Hour)
	token, err := mgr.GenerateToken("u1", "Ada", "member")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)
	w := httptest.NewRecorder()
	authTestRouter(mgr).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_MissingToken(t *testing.T) {
	mgr := jwt.NewManager("test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	authTestRouter(mgr).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	mgr := jwt.NewManager("test-secret", -time.Minute)
	token, err := mgr.GenerateToken("u1", "Ada", "member")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authTestRouter(jwt.NewManager("test-secret", time.Hour)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	mgr := jwt.NewManager("test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	authTestRouter(mgr).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		c.Set("role", c.Query("as"))
	}, RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		role string
		want int
	}{
		{string(domain.RoleMember), http.StatusForbidden},
		{string(domain.RoleAdmin), http.StatusOK},
		{string(domain.RoleSuperadmin), http.StatusOK},
		{"", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin?as="+tc.role, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "role %q", tc.role)
	}
}
