package api

import (
	"errors"
	"net/http"

	"mindbloom/backend/internal/models"
	"mindbloom/backend/internal/service"
	"mindbloom/backend/pkg/logger"
	"mindbloom/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ProfileHandler handles safety-net settings and activity tracking
type ProfileHandler struct {
	service *service.ProfileService
	logger  *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *service.ProfileService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

// GetProfile returns the authenticated user's profile, with defaults when
// none has been saved yet
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.logger.LogError(err, "Error fetching user profile", "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile saves safety-net settings
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProfile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.LogError(err, "Error updating user profile", "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

// UpdateActivity bumps the authenticated user's lastActive timestamp
func (h *ProfileHandler) UpdateActivity(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.service.TouchActivity(c.Request.Context(), userID); err != nil {
		h.logger.LogError(err, "Error updating user activity", "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Activity updated."})
}

// ConfirmCheckin handles the safety-net check-in link from a reminder email
func (h *ProfileHandler) ConfirmCheckin(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	// The check-in token is the recipient's user ID
	if err := h.service.ConfirmCheckin(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown check-in token"})
			return
		}
		h.logger.LogError(err, "Error confirming check-in")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm check-in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Thanks for checking in. Your safety net has been updated."})
}
