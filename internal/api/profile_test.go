package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindbloom/backend/internal/models"
	"mindbloom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileTestRouter(repo *fakeProfileRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewProfileHandler(service.NewProfileService(repo), testLogger())

	r := gin.New()
	r.GET("/api/v1/user/profile", asUser("user-1"), handler.GetProfile)
	r.POST("/api/v1/user/profile", asUser("user-1"), handler.UpdateProfile)
	r.POST("/api/v1/user/update-activity", asUser("user-1"), handler.UpdateActivity)
	r.GET("/api/v1/feedback/confirm-checkin", handler.ConfirmCheckin)
	return r
}

func TestGetProfileDefaults(t *testing.T) {
	r := newProfileTestRouter(newFakeProfileRepo())

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/user/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.False(t, profile.IsSafetyNetEnabled)
	assert.Equal(t, models.DefaultInactivityThresholdHours, profile.InactivityThresholdHours)
	assert.Empty(t, profile.TrustedContacts)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	repo := newFakeProfileRepo()
	r := newProfileTestRouter(repo)

	w := postJSON(r, "/api/v1/user/profile", gin.H{
		"isSafetyNetEnabled":       true,
		"inactivityThresholdHours": 24,
		"trustedContacts": []gin.H{
			{"name": "A Friend", "email": "friend@example.com"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "friend@example.com")

	stored := repo.profiles["user-1"]
	require.NotNil(t, stored)
	assert.True(t, stored.IsSafetyNetEnabled)
	assert.Equal(t, 24, stored.InactivityThresholdHours)
}

func TestUpdateProfileRejectsInvalidSettings(t *testing.T) {
	r := newProfileTestRouter(newFakeProfileRepo())

	w := postJSON(r, "/api/v1/user/profile", gin.H{
		"isSafetyNetEnabled":       true,
		"inactivityThresholdHours": 500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateActivityEndpoint(t *testing.T) {
	repo := newFakeProfileRepo()
	r := newProfileTestRouter(repo)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/user/update-activity", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, repo.touches)
	require.NotNil(t, repo.profiles["user-1"])
	assert.NotNil(t, repo.profiles["user-1"].LastActive)
}

func TestConfirmCheckinEndpoint(t *testing.T) {
	repo := newFakeProfileRepo()
	sent := time.Now().Add(-time.Hour)
	profile := models.DefaultProfile("user-1")
	profile.NotificationSentAt = &sent
	repo.profiles["user-1"] = profile

	r := newProfileTestRouter(repo)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/feedback/confirm-checkin?token=user-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, repo.profiles["user-1"].NotificationSentAt)
}

func TestConfirmCheckinUnknownToken(t *testing.T) {
	r := newProfileTestRouter(newFakeProfileRepo())

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/feedback/confirm-checkin?token=nobody", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmCheckinMissingToken(t *testing.T) {
	r := newProfileTestRouter(newFakeProfileRepo())

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/feedback/confirm-checkin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
