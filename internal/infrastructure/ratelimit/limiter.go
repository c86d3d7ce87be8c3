package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxRequests and DefaultWindow are the policy applied to privileged
// endpoints unless a route overrides them.
const (
	DefaultMaxRequests   = 100
	DefaultWindow        = 60 * time.Second
	DefaultSweepInterval = 60 * time.Second
)

// Result is the outcome of a single rate-limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a process-wide fixed-window counter keyed by identifier.
// One instance is constructed at startup and injected into handlers; the
// identifier map is shared by every request, so the increment-and-compare
// happens under a single mutex rather than a read-mutate-write sequence.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewLimiter constructs an empty limiter using the wall clock.
func NewLimiter() *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// NewLimiterWithClock constructs a limiter with an injected clock for tests.
func NewLimiterWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		now:     now,
	}
}

// Check counts one request against the identifier's current window.
// A first request, or any request at or after the window's reset instant,
// opens a fresh window with count 1. Within a window the count is incremented
// atomically; once it exceeds maxRequests the request is denied and RetryAfter
// carries the time left until the window resets.
func (l *Limiter) Check(identifier string, maxRequests int, window time.Duration) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(window)}
		l.entries[identifier] = e
		return Result{
			Allowed:   true,
			Limit:     maxRequests,
			Remaining: maxRequests - 1,
			ResetAt:   e.resetAt,
		}
	}

	e.count++
	if e.count > maxRequests {
		return Result{
			Allowed:    false,
			Limit:      maxRequests,
			Remaining:  0,
			ResetAt:    e.resetAt,
			RetryAfter: e.resetAt.Sub(now),
		}
	}
	return Result{
		Allowed:   true,
		Limit:     maxRequests,
		Remaining: maxRequests - e.count,
		ResetAt:   e.resetAt,
	}
}

// Reset clears the identifier's window. Exposed for test harnesses.
func (l *Limiter) Reset(identifier string) {
	l.mu.Lock()
	delete(l.entries, identifier)
	l.mu.Unlock()
}

// Snapshot reports the identifier's current count and reset time without
// consuming a request. Exposed for test harnesses.
func (l *Limiter) Snapshot(identifier string) (count int, resetAt time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, found := l.entries[identifier]
	if !found {
		return 0, time.Time{}, false
	}
	return e.count, e.resetAt, true
}

// Sweep evicts every entry whose window has passed and returns how many were
// removed. Bounds memory in long-running processes.
func (l *Limiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, e := range l.entries {
		if !now.Before(e.resetAt) {
			delete(l.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is canceled.
func (l *Limiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}
