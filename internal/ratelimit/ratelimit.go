package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum delay between outbound calls to the same source.
// Each source gets its own token bucket of size one, so calls to different
// sources never block each other.
type Limiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter // key: source name
	minDelay  time.Duration
	overrides map[string]time.Duration
}

// NewLimiter creates a limiter that spaces calls to each source by minDelay,
// or by the per-source override when one is configured. A zero delay never
// waits.
func NewLimiter(minDelay time.Duration, overrides map[string]time.Duration) *Limiter {
	return &Limiter{
		limiters:  make(map[string]*rate.Limiter),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

// DelayFor returns the configured delay for the given source.
func (l *Limiter) DelayFor(source string) time.Duration {
	if d, ok := l.overrides[source]; ok {
		return d
	}
	return l.minDelay
}

func (l *Limiter) limiterFor(source string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[source]; ok {
		return lim
	}
	limit := rate.Inf
	if d := l.DelayFor(source); d > 0 {
		limit = rate.Every(d)
	}
	lim := rate.NewLimiter(limit, 1)
	l.limiters[source] = lim
	return lim
}

// Wait blocks until the next call to source is allowed.
// Returns an error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	if err := l.limiterFor(source).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", source, err)
	}
	return nil
}
