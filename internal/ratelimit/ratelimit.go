package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

// Limiter enforces a minimum delay between requests that share a key.
// Keys are provider kinds, so every board hosted on the same upstream API
// shares one budget.
type Limiter struct {
	mu        sync.Mutex
	lastCall  map[string]time.Time
	minDelay  time.Duration
	overrides map[string]time.Duration
}

// NewLimiter creates a limiter with a default minimum delay and optional
// per-key overrides.
func NewLimiter(minDelay time.Duration, overrides map[string]time.Duration) *Limiter {
	o := make(map[string]time.Duration, len(overrides))
	for k, v := range overrides {
		o[k] = v
	}
	return &Limiter{
		lastCall:  make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: o,
	}
}

// DelayFor returns the minimum spacing applied to key.
func (r *Limiter) DelayFor(key string) time.Duration {
	if d, ok := r.overrides[key]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until enough time has passed since the last request for key.
// The slot is reserved before sleeping so concurrent callers queue up
// rather than firing together.
func (r *Limiter) Wait(ctx context.Context, key string) error {
	delay := r.DelayFor(key)

	r.mu.Lock()
	now := time.Now()
	next := now
	if last, ok := r.lastCall[key]; ok && last.Add(delay).After(now) {
		next = last.Add(delay)
	}
	r.lastCall[key] = next
	r.mu.Unlock()

	wait := next.Sub(now)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// Provider is a decorator that waits on a shared limiter before delegating
// to the wrapped provider.
type Provider struct {
	inner   model.Provider
	limiter *Limiter
	key     string
}

// NewProvider wraps a provider with rate limiting. All providers that hit
// the same upstream should share one limiter and key.
func NewProvider(inner model.Provider, limiter *Limiter, key string) *Provider {
	return &Provider{
		inner:   inner,
		limiter: limiter,
		key:     key,
	}
}

// Name returns the wrapped provider's name.
func (p *Provider) Name() string { return p.inner.Name() }

// FetchListings waits for the limiter, then delegates.
func (p *Provider) FetchListings(ctx context.Context) ([]model.Listing, error) {
	if err := p.limiter.Wait(ctx, p.key); err != nil {
		return nil, err
	}
	return p.inner.FetchListings(ctx)
}
