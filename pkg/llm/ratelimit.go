package llm

import (
	"context"
	"sync"
	"time"
)

// Default request budget: 30 calls per rolling minute.
const (
	DefaultCallLimit  = 30
	DefaultCallWindow = time.Minute
)

// RateLimiter implements a sliding window rate limiter. A call made
// at time t occupies the window until t plus the window length.
type RateLimiter struct {
	mu sync.Mutex

	// Configuration
	limit  int
	window time.Duration

	// State
	calls     []time.Time // oldest first
	waitCount int
}

// NewRateLimiter creates a rate limiter allowing limit calls per
// window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultCallLimit
	}
	if window <= 0 {
		window = DefaultCallWindow
	}

	return &RateLimiter{
		limit:  limit,
		window: window,
	}
}

// Allow checks if a call can proceed immediately, recording it when
// it can.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.prune(now)

	if len(rl.calls) < rl.limit {
		rl.calls = append(rl.calls, now)
		return true
	}
	return false
}

// Wait blocks until a call can proceed or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := time.Now()
		rl.prune(now)

		if len(rl.calls) < rl.limit {
			rl.calls = append(rl.calls, now)
			rl.mu.Unlock()
			return nil
		}

		// Sleep until the oldest call leaves the window
		waitDuration := rl.calls[0].Add(rl.window).Sub(now)
		rl.waitCount++
		rl.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitDuration):
			// Continue loop to try again
		}
	}
}

// prune drops calls that have aged out of the window.
func (rl *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-rl.window)
	i := 0
	for i < len(rl.calls) && !rl.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		rl.calls = append(rl.calls[:0], rl.calls[i:]...)
	}
}

// Remaining returns how many calls fit in the window right now.
func (rl *RateLimiter) Remaining() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.prune(time.Now())
	return rl.limit - len(rl.calls)
}

// Stats returns rate limiter statistics.
func (rl *RateLimiter) Stats() RateLimiterStats {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.prune(time.Now())

	return RateLimiterStats{
		InWindow:  len(rl.calls),
		Limit:     rl.limit,
		Window:    rl.window,
		WaitCount: rl.waitCount,
	}
}

// RateLimiterStats contains rate limiter statistics.
type RateLimiterStats struct {
	InWindow  int
	Limit     int
	Window    time.Duration
	WaitCount int
}

// Reset forgets all recorded calls.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.calls = rl.calls[:0]
}
