package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mindbloom/backend/internal/models"
	"mindbloom/backend/pkg/logger"
	"mindbloom/backend/pkg/observability"
)

// ErrEmptyPrompt is returned for empty or whitespace-only utterances,
// before any backend is contacted
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// CrisisResponse is the fixed safety payload, emitted verbatim on every
// crisis turn. It must stay deterministic.
const CrisisResponse = `It sounds like you are in a lot of pain, and I'm deeply concerned. Please know that immediate help is available and you are not alone.

Please connect with a professional in India right now:

iCALL Psychosocial Helpline: 9152987821
Vandrevala Foundation: 9999666555
AASRA (24x7 Helpline): +91-9820466726

Reaching out is a sign of strength. They are trained to support you.`

// FallbackResponse is shown when the responder fails after a clean
// classification. One fixed, non-alarming string; internal detail stays in
// the logs.
const FallbackResponse = "I'm sorry, something went wrong. I'm having a little trouble connecting right now. Please try again later."

// Replier abstracts the responder for the pipeline
type Replier interface {
	Reply(ctx context.Context, history []models.Message, prompt string, persona Persona) (string, error)
}

// TurnResult is the outcome of one conversation turn
type TurnResult struct {
	Reply  string `json:"response"`
	Crisis bool   `json:"isCrisis"`
}

// Pipeline is the crisis-gated conversational orchestrator. It is stateless
// per turn and safe to invoke concurrently for different users; each call
// runs validate -> classify -> branch -> respond sequentially, with
// classification strictly preceding any generation.
type Pipeline struct {
	classifier Classifier
	responder  Replier
	persona    Persona
	metrics    *observability.Metrics
	log        *logger.Logger
}

// NewPipeline wires the classifier and responder under a persona. Metrics
// may be nil (tests).
func NewPipeline(classifier Classifier, responder Replier, persona Persona, metrics *observability.Metrics, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &Pipeline{
		classifier: classifier,
		responder:  responder,
		persona:    persona,
		metrics:    metrics,
		log:        log,
	}
}

// HandleTurn processes a single turn. History carries prior turns only; the
// current utterance is the prompt.
//
// Branches:
//   - invalid prompt: ErrEmptyPrompt, no backend call
//   - classifier failure: the turn fails loudly rather than guessing
//   - crisis: the fixed safety payload; the flagged utterance is withheld
//     from the generative model
//   - clean turn: the responder's reply verbatim, or FallbackResponse if
//     the responder fails (recovered, not an error)
func (p *Pipeline) HandleTurn(ctx context.Context, history []models.Message, prompt string) (TurnResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return TurnResult{}, ErrEmptyPrompt
	}

	if p.metrics != nil {
		p.metrics.ChatTurns.Add(ctx, 1)
	}

	verdict, err := p.classifier.Check(ctx, prompt)
	if err != nil {
		if p.metrics != nil {
			p.metrics.ClassifierFailures.Add(ctx, 1)
		}
		return TurnResult{}, fmt.Errorf("crisis gate: %w", err)
	}

	if verdict.IsCrisis {
		if p.metrics != nil {
			p.metrics.CrisisFlags.Add(ctx, 1)
		}
		p.log.Warn("Crisis gate triggered, withholding utterance from responder")
		return TurnResult{Reply: CrisisResponse, Crisis: true}, nil
	}

	reply, err := p.responder.Reply(ctx, history, prompt, p.persona)
	if err != nil {
		if p.metrics != nil {
			p.metrics.ResponderFailures.Add(ctx, 1)
		}
		p.log.LogError(err, "Responder failed, serving fallback reply")
		return TurnResult{Reply: FallbackResponse, Crisis: false}, nil
	}

	return TurnResult{Reply: reply, Crisis: false}, nil
}

// Persona returns the pipeline's configured persona
func (p *Pipeline) Persona() Persona {
	return p.persona
}
