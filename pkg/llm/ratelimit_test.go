package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow(), "fourth call exceeds the window budget")
	assert.Zero(t, rl.Remaining())
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)

	require.True(t, rl.Allow())
	require.True(t, rl.Allow())
	require.False(t, rl.Allow())

	time.Sleep(70 * time.Millisecond)
	assert.True(t, rl.Allow(), "old calls age out of the window")
}

func TestRateLimiter_WaitBlocksUntilBudget(t *testing.T) {
	rl := NewRateLimiter(1, 100*time.Millisecond)
	require.True(t, rl.Allow())

	start := time.Now()
	err := rl.Wait(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond,
		"wait must block until the oldest call expires")
	assert.GreaterOrEqual(t, rl.Stats().WaitCount, 1)
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	require.True(t, rl.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)

	stats := rl.Stats()
	assert.Equal(t, DefaultCallLimit, stats.Limit)
	assert.Equal(t, DefaultCallWindow, stats.Window)
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	require.True(t, rl.Allow())
	require.False(t, rl.Allow())

	rl.Reset()
	assert.True(t, rl.Allow())
}
