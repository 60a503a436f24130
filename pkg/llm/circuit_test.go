package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Hour,
	})

	boom := errors.New("boom")
	cb.RecordError(boom)
	assert.False(t, cb.IsOpen(), "one failure stays under the threshold")

	cb.RecordError(boom)
	assert.True(t, cb.IsOpen())
	assert.Equal(t, CircuitStateOpen, cb.State())
	assert.Equal(t, boom, cb.LastError())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Hour,
	})

	cb.RecordError(errors.New("a"))
	cb.RecordSuccess()
	cb.RecordError(errors.New("b"))

	assert.False(t, cb.IsOpen(), "failures must be consecutive to trip")
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
	})

	cb.RecordError(errors.New("down"))
	require.True(t, cb.IsOpen())

	time.Sleep(30 * time.Millisecond)
	assert.False(t, cb.IsOpen(), "recovery timeout lets a trial call through")
	assert.Equal(t, CircuitStateHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, CircuitStateClosed, cb.State())
	assert.NoError(t, cb.LastError())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
	})

	cb.RecordError(errors.New("down"))
	time.Sleep(30 * time.Millisecond)
	require.False(t, cb.IsOpen())

	cb.RecordError(errors.New("still down"))
	assert.True(t, cb.IsOpen(), "failed trial call reopens the circuit")
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Hour})
	cb.RecordError(errors.New("x"))
	require.True(t, cb.IsOpen())

	cb.Reset()
	assert.False(t, cb.IsOpen())
	assert.Equal(t, CircuitStateClosed, cb.State())
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", CircuitStateClosed.String())
	assert.Equal(t, "open", CircuitStateOpen.String())
	assert.Equal(t, "half-open", CircuitStateHalfOpen.String())
	assert.Equal(t, "unknown", CircuitState(99).String())
}
