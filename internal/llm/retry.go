package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"
)

// RetryConfig bounds retries of transient failures.
type RetryConfig struct {
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

// DefaultRetryConfig returns three attempts with 2s exponential backoff
// capped at 30s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       2 * time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        30 * time.Second,
	}
}

// Backoff returns the delay before the attempt following attempt.
// A server-provided hint takes precedence when it is longer. MaxBackoff
// caps both.
func (c RetryConfig) Backoff(attempt int, hint time.Duration) time.Duration {
	d := float64(c.BackoffBase) * math.Pow(c.BackoffMultiplier, float64(attempt-1))
	backoff := max(time.Duration(d), hint)
	if c.MaxBackoff > 0 && backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}
	return backoff
}

type retrying struct {
	next    Client
	cfg     RetryConfig
	timeout time.Duration
	logger  *slog.Logger
}

// WithRetry wraps next so that each attempt runs under timeout and
// transient failures are retried per cfg. Cancellation of ctx is returned
// unclassified.
func WithRetry(next Client, cfg RetryConfig, timeout time.Duration, logger *slog.Logger) Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retrying{
		next:    next,
		cfg:     cfg,
		timeout: timeout,
		logger:  logger,
	}
}

func (r *retrying) Complete(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		resp, err := r.attempt(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		if !IsTransient(err) || attempt == r.cfg.MaxAttempts {
			break
		}

		var hint time.Duration
		var e *Error
		if errors.As(err, &e) {
			hint = e.RetryAfter
		}
		backoff := r.cfg.Backoff(attempt, hint)

		r.logger.Warn("completion failed, retrying",
			"attempt", attempt,
			"max_attempts", r.cfg.MaxAttempts,
			"backoff", backoff,
			"error", err,
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

func (r *retrying) attempt(ctx context.Context, req Request) (*Response, error) {
	if r.timeout <= 0 {
		return r.next.Complete(ctx, req)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.next.Complete(attemptCtx, req)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		var e *Error
		if !errors.As(err, &e) || e.Kind != KindTimeout {
			return nil, &Error{Provider: "llm", Kind: KindTimeout, Err: err}
		}
	}
	return resp, err
}
