package api

import (
	"context"
	"io"
	"time"

	"mindbloom/backend/internal/models"
	"mindbloom/backend/internal/repository"
	"mindbloom/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func testLogger() *logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.Output = io.Discard
	return logger.New(cfg)
}

// asUser injects an authenticated identity the way the auth middleware does
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

type fakeGenerator struct {
	out   string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ []models.Message, _ string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

type fakeHistoryRepo struct {
	docs map[string][]models.Message
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{docs: make(map[string][]models.Message)}
}

func (r *fakeHistoryRepo) Get(_ context.Context, userID string) (*models.ChatHistory, error) {
	messages, ok := r.docs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &models.ChatHistory{UserID: userID, Messages: messages}, nil
}

func (r *fakeHistoryRepo) Upsert(_ context.Context, userID string, messages []models.Message) error {
	r.docs[userID] = messages
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.UserProfile
	touches  int
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
	copied := *profile
	r.profiles[profile.UserID] = &copied
	return nil
}

func (r *fakeProfileRepo) TouchActivity(_ context.Context, userID string, at time.Time) error {
	r.touches++
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
