package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/alert"
	"github.com/greenledger/esg-compass/internal/llm"
	"github.com/greenledger/esg-compass/internal/model"
	"github.com/greenledger/esg-compass/internal/risk"
	"github.com/greenledger/esg-compass/internal/scoring"
	anthropicpkg "github.com/greenledger/esg-compass/pkg/anthropic"
)

// appEnv holds the initialized store and services shared by the score,
// alerts, and serve commands.
type appEnv struct {
	Store     alert.Store
	Alerts    *alert.Service
	Scorer    *scoring.Scorer
	Chain     *llm.Chain
	Questions []model.Question
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv sets up the store, compliance calendar, provider chain, and
// services. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	calendar, err := risk.LoadCalendar(cfg.CalendarPath)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "load compliance calendar")
	}

	chain := buildChain()
	svc := alert.NewService(st, risk.NewModel(calendar), chain)

	scorer := scoring.NewScorer(scoring.Weights{
		Environmental: cfg.Weights.Environmental,
		Social:        cfg.Weights.Social,
		Governance:    cfg.Weights.Governance,
	}, model.DefaultQuestions)

	return &appEnv{
		Store:     st,
		Alerts:    svc,
		Scorer:    scorer,
		Chain:     chain,
		Questions: model.DefaultQuestions,
	}, nil
}

// initStore builds the configured storage backend.
func initStore(ctx context.Context) (alert.Store, error) {
	switch cfg.Store.Driver {
	case "", "sqlite":
		st, err := alert.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "open sqlite store")
		}
		zap.L().Info("using sqlite store", zap.String("path", cfg.Store.DatabaseURL))
		return st, nil
	case "postgres":
		st, err := alert.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "connect postgres store")
		}
		zap.L().Info("using postgres store")
		return st, nil
	case "memory":
		zap.L().Warn("using in-memory store, data will not persist")
		return alert.NewMemoryStore(), nil
	}
	return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// buildChain assembles the LLM provider chain in configured priority
// order. Returns nil when no provider is usable.
func buildChain() *llm.Chain {
	var providers []llm.Provider
	for _, name := range cfg.LLM.Providers {
		switch name {
		case "anthropic":
			if cfg.LLM.AnthropicKey == "" {
				zap.L().Debug("ESG_LLM_ANTHROPIC_KEY not set, anthropic provider disabled")
				continue
			}
			client := anthropicpkg.NewClient(cfg.LLM.AnthropicKey)
			providers = append(providers, llm.NewAnthropicProvider(client, cfg.LLM.Model, cfg.LLM.RatePerMin))
		case "ollama":
			timeout := time.Duration(cfg.LLM.TimeoutSecs) * time.Second
			providers = append(providers, llm.NewOllamaProvider(cfg.LLM.OllamaBaseURL, cfg.LLM.OllamaModel, timeout))
		default:
			zap.L().Warn("unknown llm provider in config, skipping", zap.String("provider", name))
		}
	}
	if len(providers) == 0 {
		zap.L().Info("no llm provider configured, using template copy only")
		return nil
	}
	return llm.NewChain(providers...)
}
