// Package llm provides a fallback chain of text-generation providers used
// to enhance alert copy and suggest answers for missing questionnaire data.
package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/resilience"
)

// ErrNoProvider is returned when every provider in the chain is
// unavailable or failed.
var ErrNoProvider = eris.New("llm: no provider available")

// Provider generates text from a prompt.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Available reports whether the provider is configured and reachable
	// enough to be worth trying.
	Available(ctx context.Context) bool
	// GenerateText returns the model's text completion for the prompt.
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Chain tries providers in order until one succeeds. Callers treat chain
// failure as a signal to fall back to deterministic templates, never as a
// hard error.
type Chain struct {
	providers []Provider
	retry     resilience.RetryConfig
}

// NewChain builds a provider chain in priority order.
func NewChain(providers ...Provider) *Chain {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = 2
	return &Chain{providers: providers, retry: retry}
}

// GenerateText asks each available provider in turn. The first successful
// response wins; per-provider errors are logged and swallowed.
func (c *Chain) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	for _, p := range c.providers {
		if !p.Available(ctx) {
			zap.L().Debug("llm: provider unavailable", zap.String("provider", p.Name()))
			continue
		}

		retry := c.retry
		retry.OnRetry = resilience.RetryLogger(p.Name(), "generate_text")

		text, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (string, error) {
			return p.GenerateText(ctx, prompt, maxTokens)
		})
		if err == nil {
			return text, nil
		}

		zap.L().Warn("llm: provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.Error(err))
	}

	return "", ErrNoProvider
}

// Enabled reports whether at least one provider is configured.
func (c *Chain) Enabled() bool {
	return len(c.providers) > 0
}
