package repository

import (
	"context"
	"errors"

	"mindbloom/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryRepository persists the per-user conversation document. Writes are
// merge-upserts: the document is created on first write and its messages
// replaced on subsequent ones, matching last-write-wins document semantics.
type HistoryRepository interface {
	Get(ctx context.Context, userID string) (*models.ChatHistory, error)
	Upsert(ctx context.Context, userID string, messages []models.Message) error
}

// GormHistoryRepository is the postgres-backed implementation
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a history repository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Get returns the history document, or ErrNotFound when the user has none
func (r *GormHistoryRepository) Get(ctx context.Context, userID string) (*models.ChatHistory, error) {
	var history models.ChatHistory
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &history, nil
}

// Upsert writes the messages document for the user, creating it if needed
func (r *GormHistoryRepository) Upsert(ctx context.Context, userID string, messages []models.Message) error {
	history := models.ChatHistory{
		UserID:   userID,
		Messages: messages,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"messages", "updated_at"}),
		}).
		Create(&history).Error
}
