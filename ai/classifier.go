package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict is the per-utterance crisis decision. It is ephemeral and never
// persisted; it exists only to choose a branch.
type Verdict struct {
	IsCrisis bool `json:"isCrisis"`
}

// Classifier decides whether a user utterance signals crisis risk. A failure
// in the underlying judgment mechanism must propagate as an error, never
// coerced into "no crisis".
type Classifier interface {
	Check(ctx context.Context, text string) (Verdict, error)
}

// Strategy names for classifier selection
const (
	StrategyKeyword = "keyword"
	StrategyModel   = "model"
	StrategyBoth    = "both"
)

// crisisKeywords is the fixed denylist. Matching is case-insensitive
// containment; paraphrases slip through, which is a documented limitation
// of this strategy, not a defect.
var crisisKeywords = []string{
	"kill myself",
	"suicidal",
	"end my life",
	"want to die",
	"no reason to live",
	"hopeless and want to end it",
}

// KeywordClassifier flags utterances containing any denylisted phrase
type KeywordClassifier struct{}

// NewKeywordClassifier creates the deterministic keyword strategy
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Check never fails; the denylist is local
func (c *KeywordClassifier) Check(_ context.Context, text string) (Verdict, error) {
	lower := strings.ToLower(text)
	for _, phrase := range crisisKeywords {
		if strings.Contains(lower, phrase) {
			return Verdict{IsCrisis: true}, nil
		}
	}
	return Verdict{IsCrisis: false}, nil
}

const classifierInstruction = `You are a safety classifier. Judge ONLY whether the user's message indicates immediate risk of self-harm. General sadness, stress or distress without self-harm intent is NOT a crisis.
Respond with exactly one JSON object and nothing else: {"isCrisis": true} or {"isCrisis": false}`

// ModelClassifier asks a generative model to judge immediate self-harm risk.
// Non-deterministic; malformed or missing structured output is an error,
// never treated as "safe".
type ModelClassifier struct {
	gen Generator
}

// NewModelClassifier creates the model-based strategy
func NewModelClassifier(gen Generator) *ModelClassifier {
	return &ModelClassifier{gen: gen}
}

// Check sends the utterance for judgment and strictly parses the boolean
func (c *ModelClassifier) Check(ctx context.Context, text string) (Verdict, error) {
	out, err := c.gen.Generate(ctx, classifierInstruction, nil, text)
	if err != nil {
		return Verdict{}, fmt.Errorf("crisis classification failed: %w", err)
	}

	verdict, err := parseVerdict(out)
	if err != nil {
		return Verdict{}, fmt.Errorf("crisis classification returned malformed output: %w", err)
	}

	return verdict, nil
}

func parseVerdict(raw string) (Verdict, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload struct {
		IsCrisis *bool `json:"isCrisis"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return Verdict{}, err
	}
	if payload.IsCrisis == nil {
		return Verdict{}, fmt.Errorf("missing isCrisis field in %q", raw)
	}

	return Verdict{IsCrisis: *payload.IsCrisis}, nil
}

// CompositeClassifier ORs the verdicts of both strategies, erring toward
// flagging more crisis signals rather than fewer. A keyword hit
// short-circuits the model call.
type CompositeClassifier struct {
	keyword *KeywordClassifier
	model   *ModelClassifier
}

// NewCompositeClassifier combines the keyword and model strategies
func NewCompositeClassifier(gen Generator) *CompositeClassifier {
	return &CompositeClassifier{
		keyword: NewKeywordClassifier(),
		model:   NewModelClassifier(gen),
	}
}

// Check returns crisis when either strategy flags the utterance
func (c *CompositeClassifier) Check(ctx context.Context, text string) (Verdict, error) {
	verdict, err := c.keyword.Check(ctx, text)
	if err != nil {
		return Verdict{}, err
	}
	if verdict.IsCrisis {
		return verdict, nil
	}

	return c.model.Check(ctx, text)
}

// NewClassifier selects a strategy at configuration time
func NewClassifier(strategy string, gen Generator) (Classifier, error) {
	switch strategy {
	case StrategyKeyword, "":
		return NewKeywordClassifier(), nil
	case StrategyModel:
		if gen == nil {
			return nil, fmt.Errorf("model classifier requires a generator")
		}
		return NewModelClassifier(gen), nil
	case StrategyBoth:
		if gen == nil {
			return nil, fmt.Errorf("composite classifier requires a generator")
		}
		return NewCompositeClassifier(gen), nil
	default:
		return nil, fmt.Errorf("unknown crisis strategy %q", strategy)
	}
}
