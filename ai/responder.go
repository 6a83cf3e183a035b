package ai

import (
	"context"
	"fmt"

	"mindbloom/backend/internal/models"
)

// Responder turns a bounded history plus a new prompt into a persona-shaped
// reply. It returns the model's text verbatim, with no post-processing or
// truncation.
type Responder struct {
	gen             Generator
	maxHistoryTurns int
}

// NewResponder creates a responder over the given generator. maxHistoryTurns
// bounds how many prior turns are forwarded (0 means no bound).
func NewResponder(gen Generator, maxHistoryTurns int) *Responder {
	return &Responder{gen: gen, maxHistoryTurns: maxHistoryTurns}
}

// Reply invokes the generative capability. History carries prior turns only;
// the current utterance goes separately as the prompt and is never
// duplicated into history. Provider failures propagate to the caller.
func (r *Responder) Reply(ctx context.Context, history []models.Message, prompt string, persona Persona) (string, error) {
	trimmed := history
	if r.maxHistoryTurns > 0 && len(history) > r.maxHistoryTurns {
		trimmed = history[len(history)-r.maxHistoryTurns:]
	}

	reply, err := r.gen.Generate(ctx, persona.SystemPrompt(), trimmed, prompt)
	if err != nil {
		return "", fmt.Errorf("responder: %w", err)
	}

	return reply, nil
}
