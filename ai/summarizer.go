package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mindbloom/backend/internal/models"
)

const summarizerInstruction = "You are an expert summarizer. Provide a concise summary of the conversation you are given. Respond with the summary text only."

const startersInstructionFmt = `%s

Generate 3 conversation starters the user can use to express their feelings.
Respond with exactly one JSON array of 3 strings and nothing else.`

// Summarizer wraps the generative capability for conversation summaries and
// conversation starters. It shares the provider with the responder but is
// not part of the gated pipeline.
type Summarizer struct {
	gen     Generator
	persona Persona
}

// NewSummarizer creates a summarizer under the given persona
func NewSummarizer(gen Generator, persona Persona) *Summarizer {
	return &Summarizer{gen: gen, persona: persona}
}

// Summarize produces a concise summary of the conversation text
func (s *Summarizer) Summarize(ctx context.Context, conversation string) (string, error) {
	if strings.TrimSpace(conversation) == "" {
		return "", fmt.Errorf("conversation must not be empty")
	}

	prompt := fmt.Sprintf("Conversation:\n%s\n\nSummary:", conversation)
	summary, err := s.gen.Generate(ctx, summarizerInstruction, nil, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize conversation: %w", err)
	}

	return strings.TrimSpace(summary), nil
}

// FormatConversation renders history into the plain-text transcript the
// summarizer consumes
func FormatConversation(messages []models.Message, assistantName string) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		speaker := assistantName
		if msg.Role == models.RoleUser {
			speaker = "User"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// GenerateStarters asks the model for three conversation starters on a topic
func (s *Summarizer) GenerateStarters(ctx context.Context, topic string) ([]string, error) {
	system := fmt.Sprintf(startersInstructionFmt, s.persona.SystemPrompt())

	prompt := "Topic: open-ended"
	if strings.TrimSpace(topic) != "" {
		prompt = "Topic: " + topic
	}

	out, err := s.gen.Generate(ctx, system, nil, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate starters: %w", err)
	}

	starters, err := parseStarters(out)
	if err != nil {
		return nil, fmt.Errorf("starters output malformed: %w", err)
	}

	return starters, nil
}

func parseStarters(raw string) ([]string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var starters []string
	if err := json.Unmarshal([]byte(cleaned), &starters); err != nil {
		return nil, err
	}
	if len(starters) == 0 {
		return nil, fmt.Errorf("empty starters list")
	}

	return starters, nil
}
