package llm

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	coreerrors "github.com/lueurxax/meeto/internal/core/errors"
	"github.com/lueurxax/meeto/internal/platform/observability"
)

// Registry manages LLM providers with fallback support.
type Registry struct {
	mu              sync.RWMutex
	providers       map[ProviderName]Provider
	order           []ProviderName // Priority order (highest first)
	circuitBreakers map[ProviderName]*CircuitBreaker
	logger          *zerolog.Logger
}

// ProviderStatus describes a provider for status output.
type ProviderStatus struct {
	Name        ProviderName `json:"name"`
	Priority    int          `json:"priority"`
	Available   bool         `json:"available"`
	CircuitOpen bool         `json:"circuit_open"`
}

// NewRegistry creates a new provider registry.
func NewRegistry(logger *zerolog.Logger) *Registry {
	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	return &Registry{
		providers:       make(map[ProviderName]Provider),
		order:           make([]ProviderName, 0),
		circuitBreakers: make(map[ProviderName]*CircuitBreaker),
		logger:          logger,
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider, cfg CircuitBreakerConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; !exists {
		r.order = append(r.order, name)
	}

	r.providers[name] = p
	r.circuitBreakers[name] = NewCircuitBreaker(cfg, r.logger)

	r.sortProvidersByPriority()

	available := MetricValueUnavailable
	if p.IsAvailable() {
		available = MetricValueAvailable
	}

	observability.LLMProviderAvailable.WithLabelValues(string(name)).Set(available)

	r.logger.Info().
		Str(logKeyProvider, string(name)).
		Int("priority", p.Priority()).
		Msg("registered LLM provider")
}

// ProviderCount returns the number of registered providers.
func (r *Registry) ProviderCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.providers)
}

// Complete implements ChatCompleter, walking providers in priority order.
func (r *Registry) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return executeWithFallback(r, req.Task, func(p Provider) (string, error) {
		return p.Complete(ctx, req)
	})
}

// executeWithFallback is a generic helper for ordered fallback execution.
func executeWithFallback[T any](r *Registry, task TaskType, fn func(Provider) (T, error)) (T, error) {
	var zero T

	order := r.providerOrder()
	if len(order) == 0 {
		return zero, coreerrors.ErrNoProvidersAvailable
	}

	var errs []error

	var firstFailed ProviderName

	for _, name := range order {
		result, attempted, err := tryProviderExec(r, name, task, fn)
		if err != nil {
			errs = append(errs, err)

			if firstFailed == "" {
				firstFailed = name
			}

			continue
		}

		if !attempted {
			continue
		}

		if firstFailed != "" {
			observability.LLMFallbacks.WithLabelValues(
				string(firstFailed),
				string(name),
				string(task),
			).Inc()

			r.logger.Info().
				Str(logKeyProvider, string(name)).
				Str(logKeyFromProvider, string(firstFailed)).
				Str(logKeyTask, string(task)).
				Msg(logMsgFallbackUsed)
		}

		return result, nil
	}

	if len(errs) > 0 {
		return zero, errors.Join(append([]error{coreerrors.ErrAllProvidersFailed}, errs...)...)
	}

	return zero, coreerrors.ErrNoProvidersAvailable
}

// tryProviderExec attempts to execute fn with one provider.
// attempted is false when the provider was skipped.
func tryProviderExec[T any](r *Registry, name ProviderName, task TaskType, fn func(Provider) (T, error)) (T, bool, error) {
	var zero T

	r.mu.RLock()
	p, exists := r.providers[name]
	cb := r.circuitBreakers[name]
	r.mu.RUnlock()

	if !exists || !p.IsAvailable() {
		return zero, false, nil
	}

	if !cb.CanAttempt() {
		observability.LLMProviderAvailable.WithLabelValues(string(name)).Set(MetricValueUnavailable)

		r.logger.Debug().
			Str(logKeyProvider, string(name)).
			Str(logKeyTask, string(task)).
			Msg(logMsgCircuitBreakerOpen)

		return zero, false, nil
	}

	start := time.Now()

	result, err := fn(p)

	duration := time.Since(start)

	observability.LLMRequestLatency.WithLabelValues(string(name), string(task)).Observe(duration.Seconds())

	if err != nil {
		if cb.RecordFailure(name) {
			observability.LLMCircuitBreakerOpens.WithLabelValues(string(name)).Inc()
			observability.LLMProviderAvailable.WithLabelValues(string(name)).Set(MetricValueUnavailable)
		}

		r.logger.Warn().
			Err(err).
			Str(logKeyProvider, string(name)).
			Str(logKeyTask, string(task)).
			Float64(logKeyDuration, duration.Seconds()).
			Msg(logMsgProviderFailed)

		return zero, false, err
	}

	cb.RecordSuccess()
	observability.LLMProviderAvailable.WithLabelValues(string(name)).Set(MetricValueAvailable)

	return result, true, nil
}

func (r *Registry) providerOrder() []ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order := make([]ProviderName, len(r.order))
	copy(order, r.order)

	return order
}

// sortProvidersByPriority sorts providers by priority in descending order.
func (r *Registry) sortProvidersByPriority() {
	sort.SliceStable(r.order, func(i, j int) bool {
		pi := r.providers[r.order[i]].Priority()
		pj := r.providers[r.order[j]].Priority()

		return pi > pj
	})
}

// GetProviderStatuses returns the status of all registered providers in priority order.
func (r *Registry) GetProviderStatuses() []ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]ProviderStatus, 0, len(r.order))

	for _, name := range r.order {
		p := r.providers[name]
		statuses = append(statuses, ProviderStatus{
			Name:        name,
			Priority:    p.Priority(),
			Available:   p.IsAvailable(),
			CircuitOpen: r.circuitBreakers[name].IsOpen(),
		})
	}

	return statuses
}

// Close closes providers that hold connections.
func (r *Registry) Close() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error

	for _, p := range r.providers {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// Ensure Registry implements ChatCompleter.
var _ ChatCompleter = (*Registry)(nil)
