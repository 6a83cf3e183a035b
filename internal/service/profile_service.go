package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindbloom/backend/internal/models"
	"mindbloom/backend/internal/repository"
)

var (
	// ErrProfileNotFound is returned by check-in confirmation for unknown users
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidProfile is returned when a settings save fails validation
	ErrInvalidProfile = errors.New("invalid profile settings")
)

// ProfileService manages safety-net settings and activity tracking
type ProfileService struct {
	profiles repository.ProfileRepository
}

// NewProfileService creates a profile service
func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetProfile returns the stored profile, or the documented defaults
// (safety net off, 48h threshold, no contacts) when none exists
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.DefaultProfile(userID), nil
		}
		return nil, err
	}
	if profile.TrustedContacts == nil {
		profile.TrustedContacts = []models.TrustedContact{}
	}
	return profile, nil
}

// UpdateProfile validates and merge-writes a settings save
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	profile := &models.UserProfile{
		UserID:                   userID,
		IsSafetyNetEnabled:       req.IsSafetyNetEnabled,
		InactivityThresholdHours: req.InactivityThresholdHours,
		TrustedContacts:          req.TrustedContacts,
	}
	if profile.TrustedContacts == nil {
		profile.TrustedContacts = []models.TrustedContact{}
	}

	if err := s.profiles.UpsertSettings(ctx, profile); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

// TouchActivity records that the user was just active
func (s *ProfileService) TouchActivity(ctx context.Context, userID string) error {
	return s.profiles.TouchActivity(ctx, userID, time.Now().UTC())
}

// ConfirmCheckin handles a safety-net check-in link: bumps lastActive and
// clears the pending-notification marker
func (s *ProfileService) ConfirmCheckin(ctx context.Context, userID string) error {
	err := s.profiles.ConfirmCheckin(ctx, userID, time.Now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProfileNotFound
	}
	return err
}
