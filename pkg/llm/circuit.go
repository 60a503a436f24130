package llm

import (
	"sync"
	"time"
)

// CircuitState represents the circuit breaker state.
type CircuitState int

const (
	// CircuitStateClosed means the circuit is healthy.
	CircuitStateClosed CircuitState = iota
	// CircuitStateOpen means the circuit is tripped.
	CircuitStateOpen
	// CircuitStateHalfOpen means the circuit is testing recovery.
	CircuitStateHalfOpen
)

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is consecutive failures before tripping.
	FailureThreshold int

	// RecoveryTimeout is time before half-open state.
	RecoveryTimeout time.Duration
}

// CircuitBreaker trips after consecutive provider failures so a dead
// or misconfigured API stops burning the rate limit budget.
type CircuitBreaker struct {
	mu     sync.Mutex
	config CircuitBreakerConfig

	state        CircuitState
	failures     int
	lastError    error
	lastOpenTime time.Time

	// Metrics
	successCount int
	failureCount int
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Set defaults
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 3
	}
	if config.RecoveryTimeout == 0 {
		config.RecoveryTimeout = 30 * time.Second
	}

	return &CircuitBreaker{
		config: config,
		state:  CircuitStateClosed,
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsOpen returns true if the circuit is open (blocking).
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitStateClosed {
		return false
	}

	if cb.state == CircuitStateOpen {
		// Check if we should transition to half-open
		if time.Since(cb.lastOpenTime) >= cb.config.RecoveryTimeout {
			cb.state = CircuitStateHalfOpen
			return false
		}
		return true
	}

	// Half-open allows one request through
	return false
}

// RecordSuccess records a successful call and closes the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.successCount++
	cb.state = CircuitStateClosed
	cb.failures = 0
	cb.lastError = nil
}

// RecordError records a failed call.
func (cb *CircuitBreaker) RecordError(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastError = err

	if cb.state == CircuitStateHalfOpen {
		// Failed recovery, go back to open
		cb.tripOpen()
		return
	}

	cb.failures++
	if cb.failures >= cb.config.FailureThreshold {
		cb.tripOpen()
	}
}

// tripOpen transitions the circuit to open state.
func (cb *CircuitBreaker) tripOpen() {
	cb.state = CircuitStateOpen
	cb.lastOpenTime = time.Now()
}

// Reset manually resets the circuit breaker.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = CircuitStateClosed
	cb.failures = 0
	cb.lastError = nil
}

// LastError returns the most recent recorded failure.
func (cb *CircuitBreaker) LastError() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.lastError
}

// Stats returns circuit breaker statistics.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerStats{
		State:        cb.state,
		SuccessCount: cb.successCount,
		FailureCount: cb.failureCount,
		Failures:     cb.failures,
	}
}

// CircuitBreakerStats contains circuit breaker statistics.
type CircuitBreakerStats struct {
	State        CircuitState
	SuccessCount int
	FailureCount int
	Failures     int
}

// String returns a string representation of the circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitStateClosed:
		return "closed"
	case CircuitStateOpen:
		return "open"
	case CircuitStateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
