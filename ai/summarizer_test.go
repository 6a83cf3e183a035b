package ai

import (
	"context"
	"testing"

	"mindbloom/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeReturnsTrimmedSummary(t *testing.T) {
	gen := &fakeGenerator{out: "  The user reflected on a stressful week.  \n"}
	s := NewSummarizer(gen, DefaultPersona())

	summary, err := s.Summarize(context.Background(), "User: bad week\nBloom: tell me more")
	require.NoError(t, err)
	assert.Equal(t, "The user reflected on a stressful week.", summary)
	assert.Contains(t, gen.lastPrompt, "User: bad week")
}

func TestSummarizeRejectsEmptyConversation(t *testing.T) {
	s := NewSummarizer(&fakeGenerator{}, DefaultPersona())

	_, err := s.Summarize(context.Background(), "   ")
	assert.Error(t, err)
}

func TestFormatConversation(t *testing.T) {
	messages := []models.Message{
		{Role: models.RoleUser, Content: "I feel stuck"},
		{Role: models.RoleAssistant, Content: "What does stuck feel like today?"},
	}

	got := FormatConversation(messages, "Bloom")
	assert.Equal(t, "User: I feel stuck\nBloom: What does stuck feel like today?", got)

	assert.Empty(t, FormatConversation(nil, "Bloom"))
}

func TestGenerateStarters(t *testing.T) {
	gen := &fakeGenerator{out: `["How was your day?", "What's on your mind?", "Anything you want to let go of?"]`}
	s := NewSummarizer(gen, DefaultPersona())

	starters, err := s.GenerateStarters(context.Background(), "stress at work")
	require.NoError(t, err)
	assert.Len(t, starters, 3)
	assert.Equal(t, "Topic: stress at work", gen.lastPrompt)
}

func TestGenerateStartersDefaultsTopic(t *testing.T) {
	gen := &fakeGenerator{out: `["a", "b", "c"]`}
	s := NewSummarizer(gen, DefaultPersona())

	_, err := s.GenerateStarters(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "Topic: open-ended", gen.lastPrompt)
}

func TestGenerateStartersMalformedOutputIsError(t *testing.T) {
	for _, out := range []string{"here are some ideas", "[]", `{"starters": []}`} {
		s := NewSummarizer(&fakeGenerator{out: out}, DefaultPersona())
		_, err := s.GenerateStarters(context.Background(), "anything")
		assert.Error(t, err, "output %q should not parse", out)
	}
}

func TestGenerateStartersStripsCodeFences(t *testing.T) {
	gen := &fakeGenerator{out: "```json\n[\"x\", \"y\", \"z\"]\n```"}
	s := NewSummarizer(gen, DefaultPersona())

	starters, err := s.GenerateStarters(context.Background(), "sleep")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, starters)
}
