package llm

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/meeto/internal/core/errors"
)

// CircuitBreakerConfig configures when a provider is taken out of rotation.
type CircuitBreakerConfig struct {
	Threshold  int
	ResetAfter time.Duration
}

// CircuitBreaker stops calling a provider after repeated consecutive failures.
type CircuitBreaker struct {
	threshold           int
	resetAfter          time.Duration
	consecutiveFailures int
	openUntil           time.Time
	now                 func() time.Time
	mu                  sync.Mutex
	logger              *zerolog.Logger
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration.
func NewCircuitBreaker(cfg CircuitBreakerConfig, logger *zerolog.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		threshold:  cfg.Threshold,
		resetAfter: cfg.ResetAfter,
		now:        time.Now,
		logger:     logger,
	}
}

// CanAttempt returns true if the circuit allows an attempt.
func (cb *CircuitBreaker) CanAttempt() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return !cb.now().Before(cb.openUntil)
}

// CheckCircuit returns an error if the circuit is open.
func (cb *CircuitBreaker) CheckCircuit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.now().Before(cb.openUntil) {
		return fmt.Errorf("%w until %v", errors.ErrCircuitBreakerOpen, cb.openUntil)
	}

	return nil
}

// RecordSuccess records a successful call and resets the failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures = 0
}

// RecordFailure records a failed call and reports whether this failure opened the circuit.
func (cb *CircuitBreaker) RecordFailure(providerName ProviderName) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures++

	if cb.consecutiveFailures < cb.threshold {
		return false
	}

	wasOpen := cb.now().Before(cb.openUntil)
	cb.openUntil = cb.now().Add(cb.resetAfter)

	if cb.logger != nil {
		cb.logger.Warn().
			Str(logKeyProvider, string(providerName)).
			Int("consecutive_failures", cb.consecutiveFailures).
			Time("open_until", cb.openUntil).
			Msg("LLM circuit breaker opened")
	}

	return !wasOpen
}

// IsOpen returns true if the circuit is currently open.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.now().Before(cb.openUntil)
}

// Reset resets the circuit breaker state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures = 0
	cb.openUntil = time.Time{}
}
