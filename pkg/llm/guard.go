package llm

import "context"

// Guard wraps a Completer with a rate limiter and a circuit breaker.
// Every call waits for budget first; provider outcomes feed the
// breaker.
type Guard struct {
	inner   Completer
	limiter *RateLimiter
	breaker *CircuitBreaker
}

// NewGuard wraps inner. A nil limiter or breaker disables that check.
func NewGuard(inner Completer, limiter *RateLimiter, breaker *CircuitBreaker) *Guard {
	return &Guard{
		inner:   inner,
		limiter: limiter,
		breaker: breaker,
	}
}

// Complete enforces the guards and delegates to the wrapped client.
func (g *Guard) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if g.breaker != nil && g.breaker.IsOpen() {
		return "", &ServiceError{
			Provider: "guard",
			Code:     CodeCircuitOpen,
			Message:  "too many consecutive failures, cooling down",
			Err:      g.breaker.LastError(),
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	text, err := g.inner.Complete(ctx, system, user, temperature)
	if g.breaker != nil {
		if err != nil {
			g.breaker.RecordError(err)
		} else {
			g.breaker.RecordSuccess()
		}
	}
	return text, err
}

// Limiter returns the wrapped rate limiter, nil when disabled.
func (g *Guard) Limiter() *RateLimiter {
	return g.limiter
}

// Breaker returns the wrapped circuit breaker, nil when disabled.
func (g *Guard) Breaker() *CircuitBreaker {
	return g.breaker
}
