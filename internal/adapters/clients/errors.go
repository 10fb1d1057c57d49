// Package clients provides the instrumented HTTP client used to reach
// downstream services.
package clients

import "errors"

// Client errors represent infrastructure failures in the HTTP layer.
// Callers translate them to domain errors before they cross a port.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and the
	// request was never attempted.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after every attempt has failed.
	// The last attempt's error is wrapped for context.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
