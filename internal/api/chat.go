package api

import (
	"errors"
	"net/http"

	"mindbloom/backend/ai"
	"mindbloom/backend/internal/models"
	"mindbloom/backend/internal/service"
	"mindbloom/backend/pkg/logger"
	"mindbloom/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the crisis-gated conversation pipeline and the
// auxiliary AI flows (standalone keyword check, summaries, starters)
type ChatHandler struct {
	pipeline   *ai.Pipeline
	keyword    *ai.KeywordClassifier
	summarizer *ai.Summarizer
	profiles   *service.ProfileService
	logger     *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(pipeline *ai.Pipeline, summarizer *ai.Summarizer, profiles *service.ProfileService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		pipeline:   pipeline,
		keyword:    ai.NewKeywordClassifier(),
		summarizer: summarizer,
		profiles:   profiles,
		logger:     logger,
	}
}

// ChatRequest is one conversation turn: prior history plus the new prompt
type ChatRequest struct {
	History []models.Message `json:"history"`
	Prompt  string           `json:"prompt" binding:"required"`
}

// Chat runs one gated conversation turn
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, _ := middleware.UserID(c)

	result, err := h.pipeline.HandleTurn(c.Request.Context(), req.History, req.Prompt)
	if err != nil {
		if errors.Is(err, ai.ErrEmptyPrompt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message must not be empty"})
			return
		}
		// Classifier failure: fail the turn loudly rather than guessing
		h.logger.LogError(err, "Chat turn failed", "userID", userID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to check message safety right now. Please try again."})
		return
	}

	// Record activity for the safety net. A storage error must not block
	// the conversation.
	if userID != "" {
		if err := h.profiles.TouchActivity(c.Request.Context(), userID); err != nil {
			h.logger.LogError(err, "Failed to update user activity", "userID", userID)
		}
	}

	c.JSON(http.StatusOK, result)
}

// DetectCrisisRequest carries a standalone keyword check
type DetectCrisisRequest struct {
	Text string `json:"text" binding:"required"`
}

// DetectCrisis runs the deterministic keyword classifier on a text
func (h *ChatHandler) DetectCrisis(c *gin.Context) {
	var req DetectCrisisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	verdict, err := h.keyword.Check(c.Request.Context(), req.Text)
	if err != nil {
		h.logger.LogError(err, "Keyword check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check text"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isCrisis": verdict.IsCrisis})
}

// SummarizeRequest carries a raw conversation transcript
type SummarizeRequest struct {
	Conversation string `json:"conversation" binding:"required"`
}

// Summarize produces a concise summary of a conversation transcript
func (h *ChatHandler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	summary, err := h.summarizer.Summarize(c.Request.Context(), req.Conversation)
	if err != nil {
		h.logger.LogError(err, "Summarization failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to summarize the conversation right now"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// Starters generates conversation starters, optionally for a topic
func (h *ChatHandler) Starters(c *gin.Context) {
	topic := c.Query("topic")

	starters, err := h.summarizer.GenerateStarters(c.Request.Context(), topic)
	if err != nil {
		h.logger.LogError(err, "Starter generation failed", "topic", topic)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to generate conversation starters right now"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"starters": starters})
}
