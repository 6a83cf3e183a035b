package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindbloom/backend/ai"
	"mindbloom/backend/internal/models"
	"mindbloom/backend/internal/repository"
	"mindbloom/backend/pkg/cache"
)

// EmptyHistorySummary is served when the user has no conversation yet
const EmptyHistorySummary = "You don't have any chat history yet. Start a conversation with Bloom to build your history!"

// ErrInvalidMessages is returned when a history write contains a bad message
var ErrInvalidMessages = errors.New("invalid messages payload")

// HistoryService manages the per-user conversation document and its summary
type HistoryService struct {
	histories  repository.HistoryRepository
	summarizer *ai.Summarizer
	cache      *cache.Cache
}

// NewHistoryService creates a history service. cache may be nil to disable
// summary caching.
func NewHistoryService(histories repository.HistoryRepository, summarizer *ai.Summarizer, c *cache.Cache) *HistoryService {
	return &HistoryService{histories: histories, summarizer: summarizer, cache: c}
}

// GetHistory returns the user's conversation document, empty when absent
func (s *HistoryService) GetHistory(ctx context.Context, userID string) (*models.ChatHistory, error) {
	history, err := s.histories.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.ChatHistory{UserID: userID, Messages: []models.Message{}}, nil
		}
		return nil, err
	}
	if history.Messages == nil {
		history.Messages = []models.Message{}
	}
	return history, nil
}

// SaveHistory merge-writes the messages document. Messages without a
// timestamp get one server-side.
func (s *HistoryService) SaveHistory(ctx context.Context, userID string, messages []models.Message) error {
	now := time.Now().UTC()
	stamped := make([]models.Message, len(messages))
	for i, msg := range messages {
		if err := msg.Validate(); err != nil {
			return fmt.Errorf("%w: message %d: %v", ErrInvalidMessages, i+1, err)
		}
		if msg.Timestamp == nil {
			t := now
			msg.Timestamp = &t
		}
		stamped[i] = msg
	}

	if err := s.histories.Upsert(ctx, userID, stamped); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Delete(summaryCacheKey(userID))
	}

	return nil
}

// SummarizeHistory produces a summary of the user's stored conversation,
// caching the result briefly so repeated requests skip the provider
func (s *HistoryService) SummarizeHistory(ctx context.Context, userID string) (string, error) {
	if s.cache != nil {
		if cached, found := s.cache.Get(summaryCacheKey(userID)); found {
			if summary, ok := cached.(string); ok {
				return summary, nil
			}
		}
	}

	history, err := s.GetHistory(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(history.Messages) == 0 {
		return EmptyHistorySummary, nil
	}

	transcript := ai.FormatConversation(history.Messages, "Bloom")
	summary, err := s.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		s.cache.Set(summaryCacheKey(userID), summary)
	}

	return summary, nil
}

func summaryCacheKey(userID string) string {
	return "history-summary:" + userID
}
