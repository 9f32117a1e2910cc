// Package llm sends single-turn completion requests to a hosted language
// model. Each provider SDK sits behind Client; retries, per-attempt
// timeouts and error classification are applied uniformly by New.
package llm

import (
	"context"
	"fmt"
	"log/slog"
)

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-5-nano",
	ProviderAnthropic: "claude-sonnet-4-5",
	ProviderGoogle:    "gemini-2.5-flash",
}

// Client completes one prompt.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (*Response, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Request is a single system + user prompt exchange.
type Request struct {
	Model       string
	System      string
	Prompt      string
	JSON        bool
	Temperature *float64
	MaxTokens   int
}

// Response carries the completion text and token usage.
type Response struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
}

// New builds the configured provider client wrapped with retry and timeout
// handling.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (Client, error) {
	var (
		base Client
		err  error
	)

	switch cfg.Provider {
	case ProviderOpenAI:
		base = newOpenAI(cfg)
	case ProviderAnthropic:
		base = newAnthropic(cfg)
	case ProviderGoogle:
		base, err = newGoogle(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	return WithRetry(
		withDefaults(base, cfg),
		cfg.Retry(),
		cfg.TimeoutDuration(),
		logger.With("provider", cfg.Provider),
	), nil
}

type defaults struct {
	next        Client
	model       string
	maxTokens   int
	temperature *float64
}

func withDefaults(next Client, cfg *Config) Client {
	return &defaults{
		next:        next,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (d *defaults) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.Model == "" {
		req.Model = d.model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = d.maxTokens
	}
	if req.Temperature == nil {
		req.Temperature = d.temperature
	}
	return d.next.Complete(ctx, req)
}
