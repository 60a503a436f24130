// Package llm provides the language model client used for codebase
// analysis, chat, and change suggestions, together with the rate
// limiting and failure handling wrapped around it.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Completer generates a completion for a system/user prompt pair.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Error codes carried by ServiceError.
const (
	CodeNotConfigured = "not_configured"
	CodeRequestFailed = "request_failed"
	CodeEmptyResponse = "empty_response"
	CodeCircuitOpen   = "circuit_open"
)

// ServiceError represents a provider-specific failure.
type ServiceError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Provider, e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Code)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsNotConfigured checks if the error means no client is available.
func IsNotConfigured(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Code == CodeNotConfigured
}

// IsCircuitOpen checks if the error came from a tripped circuit.
func IsCircuitOpen(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Code == CodeCircuitOpen
}
