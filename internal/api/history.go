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

// HistoryHandler handles the per-user conversation document
type HistoryHandler struct {
	service *service.HistoryService
	logger  *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service *service.HistoryService, logger *logger.Logger) *HistoryHandler {
	return &HistoryHandler{service: service, logger: logger}
}

// GetChatHistory returns the authenticated user's stored conversation
func (h *HistoryHandler) GetChatHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), userID)
	if err != nil {
		h.logger.LogError(err, "Error fetching chat history", "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":   history.UserID,
		"messages": history.Messages,
	})
}

// UpdateHistoryRequest carries a merge-write of the conversation document
type UpdateHistoryRequest struct {
	Messages []models.Message `json:"messages" binding:"required"`
}

// UpdateChatHistory merge-writes the authenticated user's conversation
func (h *HistoryHandler) UpdateChatHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req UpdateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Messages must be an array of {role, content} records"})
		return
	}

	if err := h.service.SaveHistory(c.Request.Context(), userID, req.Messages); err != nil {
		if errors.Is(err, service.ErrInvalidMessages) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.LogError(err, "Error updating chat history", "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Chat history updated."})
}

// SummarizeHistory summarizes the authenticated user's stored conversation
func (h *HistoryHandler) SummarizeHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	summary, err := h.service.SummarizeHistory(c.Request.Context(), userID)
	if err != nil {
		h.logger.LogError(err, "Error generating summary", "userID", userID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to summarize your history right now"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
