package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

func TestWait_SameKey_EnforcesMinDelay(t *testing.T) {
	limiter := NewLimiter(100*time.Millisecond, nil)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "greenhouse"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "greenhouse"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentKeys_NoCrossBlocking(t *testing.T) {
	limiter := NewLimiter(200*time.Millisecond, nil)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "greenhouse"); err != nil {
		t.Fatalf("greenhouse wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "lever"); err != nil {
		t.Fatalf("lever wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected lever wait to be near-instant, got %v", elapsed)
	}
}

func TestWait_OverrideApplies(t *testing.T) {
	limiter := NewLimiter(5*time.Second, map[string]time.Duration{"remoteok": 0})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "remoteok"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("override of 0 should not block, took %v", elapsed)
	}
	if got := limiter.DelayFor("lever"); got != 5*time.Second {
		t.Errorf("DelayFor(lever) = %v, want default 5s", got)
	}
}

func TestWait_ConcurrentCallersQueue(t *testing.T) {
	limiter := NewLimiter(50*time.Millisecond, nil)
	ctx := context.Background()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Wait(ctx, "ashby"); err != nil {
				t.Errorf("wait: %v", err)
			}
		}()
	}
	wg.Wait()

	// three callers: 0ms, 50ms, 100ms
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected callers to be spaced out, finished in %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewLimiter(5*time.Second, nil)

	if err := limiter.Wait(context.Background(), "greenhouse"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx, "greenhouse"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

type recordingProvider struct {
	called bool
}

func (p *recordingProvider) Name() string { return "acme-gh" }

func (p *recordingProvider) FetchListings(_ context.Context) ([]model.Listing, error) {
	p.called = true
	return nil, nil
}

func TestProvider_WaitsBeforeDelegating(t *testing.T) {
	limiter := NewLimiter(100*time.Millisecond, nil)
	inner := &recordingProvider{}
	p := NewProvider(inner, limiter, "greenhouse")
	ctx := context.Background()

	if _, err := p.FetchListings(ctx); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if !inner.called {
		t.Fatal("inner provider was not called on first fetch")
	}
	inner.called = false

	start := time.Now()
	if _, err := p.FetchListings(ctx); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !inner.called {
		t.Fatal("inner provider was not called on second fetch")
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second fetch, got %v", elapsed)
	}
	if p.Name() != "acme-gh" {
		t.Errorf("Name() = %q", p.Name())
	}
}
