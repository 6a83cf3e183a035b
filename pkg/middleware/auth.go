package middleware

import (
	"strings"

	"mindbloom/backend/pkg/errors"
	"mindbloom/backend/pkg/jwt"
	"mindbloom/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware checks that the request has a valid session token and
// adds the authenticated user identity to the context. Every downstream
// handler reads the user ID from here; nothing in the application assumes
// an ambient current user.
func JWTAuthMiddleware(jwtService *jwt.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Error(errors.NewUnauthorizedError("AUTH_REQUIRED", "Authorization header is required"))
			c.Abort()
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			log.Warn("Invalid session token", "error", err.Error())
			c.Error(errors.NewUnauthorizedError("INVALID_TOKEN", "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("userId", claims.UserID)

		c.Next()
	}
}

// UserID extracts the authenticated user ID from the request context
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("userId")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
