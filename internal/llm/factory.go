package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// New builds the provider named by cfg and wraps it so each call is
// bounded by cfg.Timeout, retried on transient failures and logged.
// events and logger may be nil.
func New(ctx context.Context, cfg Config, events EventLogger, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropic(cfg)
	case "openai":
		base, err = NewOpenAI(cfg)
	case "openrouter":
		base, err = NewOpenRouter(cfg)
	case "gemini":
		base, err = NewGemini(ctx, cfg)
	case "mock":
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	// timeout → retry → logging → base, so every attempt is logged.
	return WithTimeout(WithRetry(WithLogging(base, events, logger), cfg.Retry), cfg.Timeout), nil
}

// FromEnv resolves configuration from the environment and builds a
// provider. It returns (nil, nil) when nothing is configured.
func FromEnv(ctx context.Context, model string, events EventLogger, logger *zap.Logger) (Provider, error) {
	cfg, ok := ResolveConfig()
	if !ok {
		return nil, nil
	}
	if model != "" {
		cfg.Model = model
	}
	return New(ctx, cfg, events, logger)
}

type timeoutProvider struct {
	Provider
	timeout time.Duration
}

// WithTimeout cancels each Generate call after d. A non-positive d returns
// p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{Provider: p, timeout: d}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
