package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindbloom/backend/ai"
	"mindbloom/backend/internal/models"
	"mindbloom/backend/internal/service"
	"mindbloom/backend/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryTestRouter(repo *fakeHistoryRepo, gen *fakeGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	summarizer := ai.NewSummarizer(gen, ai.DefaultPersona())
	historyService := service.NewHistoryService(repo, summarizer, cache.New(time.Minute, time.Minute, 100))
	handler := NewHistoryHandler(historyService, testLogger())

	r := gin.New()
	r.GET("/api/v1/user/chat-history", asUser("user-1"), handler.GetChatHistory)
	r.POST("/api/v1/user/chat-history", asUser("user-1"), handler.UpdateChatHistory)
	r.GET("/api/v1/user/summarize-history", asUser("user-1"), handler.SummarizeHistory)
	return r
}

func TestGetChatHistoryEmptyForNewUser(t *testing.T) {
	r := newHistoryTestRouter(newFakeHistoryRepo(), &fakeGenerator{})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/user/chat-history", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		UserID   string           `json:"userId"`
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.UserID)
	assert.NotNil(t, resp.Messages)
	assert.Empty(t, resp.Messages)
}

func TestUpdateChatHistoryRoundTrip(t *testing.T) {
	repo := newFakeHistoryRepo()
	r := newHistoryTestRouter(repo, &fakeGenerator{})

	w := postJSON(r, "/api/v1/user/chat-history", gin.H{
		"messages": []gin.H{
			{"role": "user", "content": "hello"},
			{"role": "assistant", "content": "hi! how are you feeling today? 🌸"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/user/chat-history", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "how are you feeling today")
}

func TestUpdateChatHistoryRejectsBadPayloads(t *testing.T) {
	r := newHistoryTestRouter(newFakeHistoryRepo(), &fakeGenerator{})

	// Unknown role
	w := postJSON(r, "/api/v1/user/chat-history", gin.H{
		"messages": []gin.H{{"role": "system", "content": "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Empty content
	w = postJSON(r, "/api/v1/user/chat-history", gin.H{
		"messages": []gin.H{{"role": "user", "content": "  "}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing messages field
	w = postJSON(r, "/api/v1/user/chat-history", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummarizeHistoryEndpoint(t *testing.T) {
	repo := newFakeHistoryRepo()
	repo.docs["user-1"] = []models.Message{
		{Role: models.RoleUser, Content: "rough week"},
	}
	gen := &fakeGenerator{out: "The user had a rough week."}
	r := newHistoryTestRouter(repo, gen)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/user/summarize-history", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The user had a rough week.")
}

func TestSummarizeHistoryEmpty(t *testing.T) {
	r := newHistoryTestRouter(newFakeHistoryRepo(), &fakeGenerator{})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/user/summarize-history", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), service.EmptyHistorySummary)
}
