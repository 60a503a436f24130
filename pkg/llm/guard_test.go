package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCompleter implements Completer for testing
type mockCompleter struct {
	resp  string
	err   error
	calls int

	lastSystem string
	lastUser   string
	lastTemp   float64
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	m.calls++
	m.lastSystem = system
	m.lastUser = user
	m.lastTemp = temperature
	if m.err != nil {
		return "", m.err
	}
	return m.resp, nil
}

func TestGuard_PassesThrough(t *testing.T) {
	inner := &mockCompleter{resp: "answer"}
	guard := NewGuard(inner, nil, nil)

	text, err := guard.Complete(context.Background(), "sys", "user", 0.2)
	require.NoError(t, err)

	assert.Equal(t, "answer", text)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "sys", inner.lastSystem)
	assert.Equal(t, "user", inner.lastUser)
	assert.Equal(t, 0.2, inner.lastTemp)
}

func TestGuard_CircuitShortCircuits(t *testing.T) {
	inner := &mockCompleter{err: errors.New("boom")}
	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Hour,
	})
	guard := NewGuard(inner, nil, breaker)

	ctx := context.Background()
	_, err := guard.Complete(ctx, "", "q", 0.1)
	require.Error(t, err)
	_, err = guard.Complete(ctx, "", "q", 0.1)
	require.Error(t, err)

	_, err = guard.Complete(ctx, "", "q", 0.1)
	assert.True(t, IsCircuitOpen(err), "tripped circuit must block before the provider")
	assert.Equal(t, 2, inner.calls, "third call never reaches the provider")
}

func TestGuard_SuccessClosesCircuit(t *testing.T) {
	inner := &mockCompleter{err: errors.New("boom")}
	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  10 * time.Millisecond,
	})
	guard := NewGuard(inner, nil, breaker)

	ctx := context.Background()
	_, _ = guard.Complete(ctx, "", "q", 0.1)
	_, _ = guard.Complete(ctx, "", "q", 0.1)
	require.True(t, breaker.IsOpen())

	time.Sleep(20 * time.Millisecond)
	inner.err = nil
	inner.resp = "recovered"

	text, err := guard.Complete(ctx, "", "q", 0.1)
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, CircuitStateClosed, breaker.State())
}

func TestGuard_RateLimitBlocks(t *testing.T) {
	inner := &mockCompleter{resp: "ok"}
	limiter := NewRateLimiter(2, time.Minute)
	guard := NewGuard(inner, limiter, nil)

	ctx := context.Background()
	_, err := guard.Complete(ctx, "", "q", 0.1)
	require.NoError(t, err)
	_, err = guard.Complete(ctx, "", "q", 0.1)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = guard.Complete(short, "", "q", 0.1)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, inner.calls, "rate limited call never reaches the provider")
}
