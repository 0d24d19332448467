// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - Unexported errors (err*): Use for internal package errors
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Circuit breaker errors.
var (
	// ErrCircuitBreakerOpen indicates the circuit breaker has tripped and requests are blocked.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
)

// Model provider errors.
var (
	// ErrNoProvidersAvailable indicates no chat model provider is configured or reachable.
	ErrNoProvidersAvailable = errors.New("no LLM providers available")

	// ErrAllProvidersFailed indicates every configured provider returned an error.
	ErrAllProvidersFailed = errors.New("all LLM providers failed")

	// ErrModelUnavailable indicates the caller was handed the unavailable model variant.
	ErrModelUnavailable = errors.New("language model unavailable")
)

// Issue tracker errors.
var (
	// ErrTrackerNotConfigured indicates tracker credentials are missing.
	ErrTrackerNotConfigured = errors.New("issue tracker not configured")

	// ErrUnauthorized indicates the tracker rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is a generic not found error.
	ErrNotFound = errors.New("not found")
)

// Client and connection errors.
var (
	// ErrClientNotInitialized indicates a client has not been initialized.
	ErrClientNotInitialized = errors.New("client not initialized")
)

// Response and parsing errors.
var (
	// ErrEmptyResponse indicates an empty response was received.
	ErrEmptyResponse = errors.New("empty response")
)

// Validation errors.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")
)

// Rate limiting and throttling errors.
var (
	// ErrRateLimited indicates rate limiting was triggered.
	ErrRateLimited = errors.New("rate limited")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
