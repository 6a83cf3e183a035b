package repository

import (
	"context"
	"errors"
	"time"

	"mindbloom/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository persists safety-net profiles. Profiles are created
// lazily on first write and never deleted.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	UpsertSettings(ctx context.Context, profile *models.UserProfile) error
	TouchActivity(ctx context.Context, userID string, at time.Time) error
	ConfirmCheckin(ctx context.Context, userID string, at time.Time) error
}

// GormProfileRepository is the postgres-backed implementation
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a profile repository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// Get returns the stored profile, or ErrNotFound when none has been saved
func (r *GormProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertSettings merges a settings save into the profile document without
// touching the activity fields
func (r *GormProfileRepository) UpsertSettings(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_safety_net_enabled",
				"inactivity_threshold_hours",
				"trusted_contacts",
				"updated_at",
			}),
		}).
		Create(profile).Error
}

// TouchActivity bumps lastActive, creating the profile with defaults if needed
func (r *GormProfileRepository) TouchActivity(ctx context.Context, userID string, at time.Time) error {
	profile := models.DefaultProfile(userID)
	profile.LastActive = &at

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_active", "updated_at"}),
		}).
		Create(profile).Error
}

// ConfirmCheckin bumps lastActive and clears the pending-notification marker
// so the safety net can notify again later
func (r *GormProfileRepository) ConfirmCheckin(ctx context.Context, userID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"last_active":          at,
			"notification_sent_at": nil,
			"updated_at":           at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
