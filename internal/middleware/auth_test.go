package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tasktrack/internal/models"
	"tasktrack/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(tokens *token.Manager) *gin.Engine {
	router := gin.New()
	router.GET("/protected", Auth(tokens, zap.NewNop()), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "role": claims.Role})
	})
	return router
}

func issue(t *testing.T, tokens *token.Manager, role models.Role) string {
	t.Helper()
	tokenString, _, err := tokens.Issue(&models.User{ID: "user-1", Email: "a@x.com", Role: role})
	require.NoError(t, err)
	return tokenString
}

func TestAuthMissingHeader(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	router := newAuthRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header required")
}

func TestAuthBadScheme(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	router := newAuthRouter(tokens)

	for _, header := range []string{"Basic abc", "Bearer", "Bearer "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.Contains(t, w.Body.String(), "Bearer <token>", "header %q", header)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	router := newAuthRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthExpiredToken(t *testing.T) {
	expired := token.NewManager([]byte("test-secret"), -time.Hour)
	router := newAuthRouter(expired)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, expired, models.RoleUser))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestAuthValidToken(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	router := newAuthRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleUser))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestRequireAdmin(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	router := gin.New()
	router.GET("/admin", Auth(tokens, zap.NewNop()), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleUser))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Admin privileges required")
	})

	t.Run("admin passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleAdmin))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unauthenticated is rejected before the gate", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
