package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindbloom/backend/pkg/errors"
	"mindbloom/backend/pkg/jwt"
	"mindbloom/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthMiddlewareRouter(jwtService *jwt.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := logger.DefaultConfig()
	cfg.Output = io.Discard
	log := logger.New(cfg)

	r := gin.New()
	r.Use(errors.ErrorHandler())
	r.GET("/protected", JWTAuthMiddleware(jwtService, log), func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return r
}

func TestJWTAuthMiddlewareAcceptsValidToken(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	r := newAuthMiddlewareRouter(jwtService)

	token, err := jwtService.GenerateToken("user-42", "u@example.com")
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	r := newAuthMiddlewareRouter(jwt.NewService("test-secret", time.Hour))

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_REQUIRED")
}

func TestJWTAuthMiddlewareRejectsBadToken(t *testing.T) {
	r := newAuthMiddlewareRouter(jwt.NewService("test-secret", time.Hour))

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddlewareRejectsForeignToken(t *testing.T) {
	other := jwt.NewService("other-secret", time.Hour)
	token, err := other.GenerateToken("user-42", "u@example.com")
	require.NoError(t, err)

	r := newAuthMiddlewareRouter(jwt.NewService("test-secret", time.Hour))

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
