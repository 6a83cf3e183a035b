package ai

import (
	"context"

	"mindbloom/backend/internal/models"
	"mindbloom/backend/pkg/resilience"
)

// GuardedGenerator wraps a Generator with a circuit breaker so a failing
// provider fails fast instead of stacking up timed-out requests.
type GuardedGenerator struct {
	gen     Generator
	breaker *resilience.Breaker
}

// NewGuardedGenerator wraps gen with the given breaker
func NewGuardedGenerator(gen Generator, breaker *resilience.Breaker) *GuardedGenerator {
	return &GuardedGenerator{gen: gen, breaker: breaker}
}

// Generate delegates to the wrapped generator through the breaker
func (g *GuardedGenerator) Generate(ctx context.Context, system string, history []models.Message, prompt string) (string, error) {
	var reply string
	err := g.breaker.Do(func() error {
		var genErr error
		reply, genErr = g.gen.Generate(ctx, system, history, prompt)
		return genErr
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}
