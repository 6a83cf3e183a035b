package models

import (
	"fmt"
	"time"
)

const (
	// DefaultInactivityThresholdHours applies when a profile doesn't exist yet
	DefaultInactivityThresholdHours = 48

	minInactivityThresholdHours = 1
	maxInactivityThresholdHours = 168

	// MaxTrustedContacts bounds the safety-net contact list
	MaxTrustedContacts = 3
)

// TrustedContact is someone the safety net may notify after prolonged inactivity
type TrustedContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// UserProfile holds per-user safety-net settings and activity tracking.
// Created lazily on first write, updated on every chat turn and settings
// save, never deleted by the application.
type UserProfile struct {
	UserID                   string           `gorm:"primaryKey;type:uuid" json:"userId"`
	IsSafetyNetEnabled       bool             `json:"isSafetyNetEnabled"`
	InactivityThresholdHours int              `json:"inactivityThresholdHours"`
	TrustedContacts          []TrustedContact `gorm:"serializer:json" json:"trustedContacts"`
	LastActive               *time.Time       `json:"lastActive,omitempty"`
	NotificationSentAt       *time.Time       `json:"notificationSentAt,omitempty"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

// DefaultProfile returns the profile served when none has been saved
func DefaultProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:                   userID,
		IsSafetyNetEnabled:       false,
		InactivityThresholdHours: DefaultInactivityThresholdHours,
		TrustedContacts:          []TrustedContact{},
	}
}

// UpdateProfileRequest carries a settings save
type UpdateProfileRequest struct {
	IsSafetyNetEnabled       bool             `json:"isSafetyNetEnabled"`
	InactivityThresholdHours int              `json:"inactivityThresholdHours"`
	TrustedContacts          []TrustedContact `json:"trustedContacts"`
}

// Validate enforces the settings bounds
func (r *UpdateProfileRequest) Validate() error {
	if r.InactivityThresholdHours < minInactivityThresholdHours || r.InactivityThresholdHours > maxInactivityThresholdHours {
		return fmt.Errorf("inactivityThresholdHours must be between %d and %d",
			minInactivityThresholdHours, maxInactivityThresholdHours)
	}
	if len(r.TrustedContacts) > MaxTrustedContacts {
		return fmt.Errorf("at most %d trusted contacts are allowed", MaxTrustedContacts)
	}
	for i, c := range r.TrustedContacts {
		if c.Name == "" || c.Email == "" {
			return fmt.Errorf("trusted contact %d must have a name and email", i+1)
		}
	}
	return nil
}
