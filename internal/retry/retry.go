package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

// Policy controls how many extra attempts are made and how long to wait
// between them.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first failure.
	MaxRetries int
	// BaseDelay is the delay before the first retry, doubled on each
	// subsequent retry.
	BaseDelay time.Duration
}

// Do runs fn, retrying transient failures with exponential backoff and
// jitter. Non-retryable errors are returned immediately.
func Do[T any](ctx context.Context, p Policy, logger *slog.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	v, err := fn(ctx)
	if err == nil {
		return v, nil
	}
	if !IsRetryable(err) {
		return zero, err
	}

	lastErr := err
	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		logger.Warn("retrying after transient error",
			"op", op,
			"attempt", attempt,
			"max_retries", p.MaxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After hint on an HTTP 429 takes precedence.
func (p Policy) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Transient()
	}
	// the collaborator answered; asking again costs money and rarely helps
	if errors.Is(err, model.ErrMalformedScores) {
		return false
	}

	// network, DNS and decode hiccups
	return true
}

// Provider is a decorator that retries a wrapped provider's fetch.
type Provider struct {
	inner  model.Provider
	policy Policy
	logger *slog.Logger
}

// NewProvider wraps a provider with retry logic.
func NewProvider(inner model.Provider, policy Policy, logger *slog.Logger) *Provider {
	return &Provider{
		inner:  inner,
		policy: policy,
		logger: logger,
	}
}

// Name returns the wrapped provider's name.
func (p *Provider) Name() string { return p.inner.Name() }

// FetchListings fetches from the wrapped provider, retrying transient errors.
func (p *Provider) FetchListings(ctx context.Context) ([]model.Listing, error) {
	return Do(ctx, p.policy, p.logger.With("provider", p.inner.Name()), "fetch", p.inner.FetchListings)
}
