package service

import (
	"context"
	"testing"
	"time"

	"mindbloom/backend/internal/models"
	"mindbloom/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	profiles map[string]*models.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.UserProfile)}
}

func (r *fakeProfileRepo) Get(_ context.Context, userID string) (*models.UserProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProfileRepo) UpsertSettings(_ context.Context, profile *models.UserProfile) error {
	if existing, ok := r.profiles[profile.UserID]; ok {
		existing.IsSafetyNetEnabled = profile.IsSafetyNetEnabled
		existing.InactivityThresholdHours = profile.InactivityThresholdHours
		existing.TrustedContacts = profile.TrustedContacts
		return nil
	}
	copied := *profile
	r.profiles[profile.UserID] = &copied
	return nil
}

func (r *fakeProfileRepo) TouchActivity(_ context.Context, userID string, at time.Time) error {
	p, ok := r.profiles[userID]
	if !ok {
		p = models.DefaultProfile(userID)
		r.profiles[userID] = p
	}
	p.LastActive = &at
	return nil
}

func (r *fakeProfileRepo) ConfirmCheckin(_ context.Context, userID string, at time.Time) error {
	p, ok := r.profiles[userID]
	if !ok {
		return repository.ErrNotFound
	}
	p.LastActive = &at
	p.NotificationSentAt = nil
	return nil
}

func TestGetProfileDefaultsWhenAbsent(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo())

	profile, err := svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", profile.UserID)
	assert.False(t, profile.IsSafetyNetEnabled)
	assert.Equal(t, models.DefaultInactivityThresholdHours, profile.InactivityThresholdHours)
	assert.Empty(t, profile.TrustedContacts)
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo)

	updated, err := svc.UpdateProfile(context.Background(), "user-1", &models.UpdateProfileRequest{
		IsSafetyNetEnabled:       true,
		InactivityThresholdHours: 24,
		TrustedContacts: []models.TrustedContact{
			{Name: "A Friend", Email: "friend@example.com"},
		},
	})
	require.NoError(t, err)

	assert.True(t, updated.IsSafetyNetEnabled)
	assert.Equal(t, 24, updated.InactivityThresholdHours)
	require.Len(t, updated.TrustedContacts, 1)
}

func TestUpdateProfileValidationFailure(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo)

	_, err := svc.UpdateProfile(context.Background(), "user-1", &models.UpdateProfileRequest{
		InactivityThresholdHours: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidProfile)
	assert.Empty(t, repo.profiles, "nothing is written on validation failure")
}

func TestUpdateProfilePreservesActivityFields(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo)

	require.NoError(t, svc.TouchActivity(context.Background(), "user-1"))
	before, err := svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, before.LastActive)

	updated, err := svc.UpdateProfile(context.Background(), "user-1", &models.UpdateProfileRequest{
		IsSafetyNetEnabled:       true,
		InactivityThresholdHours: 72,
	})
	require.NoError(t, err)

	assert.NotNil(t, updated.LastActive, "settings saves must not clear activity")
}

func TestConfirmCheckin(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo)

	require.NoError(t, svc.TouchActivity(context.Background(), "user-1"))
	sent := time.Now().Add(-time.Hour)
	repo.profiles["user-1"].NotificationSentAt = &sent

	err := svc.ConfirmCheckin(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, repo.profiles["user-1"].NotificationSentAt, "check-in clears the pending marker")

	err = svc.ConfirmCheckin(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
