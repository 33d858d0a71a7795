package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/greenledger/esg-compass/pkg/anthropic"
)

// AnthropicProvider generates text through the Anthropic API, rate-limited
// to stay inside the account's requests-per-minute budget.
type AnthropicProvider struct {
	client  anthropic.Client
	model   string
	limiter *rate.Limiter
}

// NewAnthropicProvider wraps an Anthropic client. ratePerMin caps request
// throughput; zero or negative disables limiting.
func NewAnthropicProvider(client anthropic.Client, model string, ratePerMin int) *AnthropicProvider {
	limit := rate.Inf
	if ratePerMin > 0 {
		limit = rate.Limit(float64(ratePerMin) / 60.0)
	}
	return &AnthropicProvider{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

// Available is true when a client is configured. Reachability is left to
// the call itself; the chain falls through on error.
func (p *AnthropicProvider) Available(_ context.Context) bool {
	return p.client != nil
}

func (p *AnthropicProvider) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "llm: anthropic rate limiter")
	}

	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic generate")
	}
	if resp.Text == "" {
		return "", eris.New("llm: anthropic returned empty response")
	}
	return resp.Text, nil
}
