package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lueurxax/meeto/internal/core/errors"
	"github.com/lueurxax/meeto/internal/platform/config"
)

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one turn of a chat completion request.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is the provider-neutral chat completion input.
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	// JSONMode asks the provider to constrain output to a JSON object when supported.
	JSONMode bool
	// Model overrides the provider default. Empty means provider default.
	Model string
	// Task labels the request in metrics and logs.
	Task TaskType
}

// TaskType labels a completion for metrics.
type TaskType string

// Task types.
const (
	TaskExtractTasks TaskType = "extract_tasks"
	TaskSummarize    TaskType = "summarize"
	TaskComplete     TaskType = "complete"
)

// ChatCompleter produces a single text completion for a chat request.
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Unavailable is the ChatCompleter used when no provider is configured.
// Callers check IsAvailable and take their non-model path instead of calling it.
type Unavailable struct{}

// Complete always fails with ErrModelUnavailable.
func (Unavailable) Complete(context.Context, CompletionRequest) (string, error) {
	return "", errors.ErrModelUnavailable
}

// IsAvailable reports whether c can be asked for completions.
func IsAvailable(c ChatCompleter) bool {
	if c == nil {
		return false
	}

	switch c.(type) {
	case Unavailable, *Unavailable:
		return false
	}

	if r, ok := c.(*Registry); ok {
		return r.ProviderCount() > 0
	}

	return true
}

// System builds a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User builds a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// splitSystem separates the system instruction from the conversation turns.
func splitSystem(messages []Message) (string, []Message) {
	var system string

	turns := make([]Message, 0, len(messages))

	for _, m := range messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}

			system += m.Content

			continue
		}

		turns = append(turns, m)
	}

	return system, turns
}

// buildCircuitConfig creates a CircuitBreakerConfig with defaults applied.
func buildCircuitConfig(cfg config.LLMConfig) CircuitBreakerConfig {
	circuitCfg := CircuitBreakerConfig{
		Threshold:  cfg.CircuitThreshold,
		ResetAfter: cfg.CircuitTimeout,
	}

	if circuitCfg.Threshold == 0 {
		circuitCfg.Threshold = defaultCircuitThreshold
	}

	if circuitCfg.ResetAfter == 0 {
		circuitCfg.ResetAfter = defaultCircuitTimeout
	}

	return circuitCfg
}

// registerProviders registers every configured provider with the registry.
func registerProviders(ctx context.Context, registry *Registry, cfg config.LLMConfig, logger *zerolog.Logger, circuitCfg CircuitBreakerConfig) {
	if cfg.GroqAPIKey != "" {
		registry.Register(NewGroqProvider(cfg, logger), circuitCfg)
	}

	if cfg.OpenAIAPIKey != "" {
		registry.Register(NewOpenAIProvider(cfg, logger), circuitCfg)
	}

	if cfg.LocalModeEnabled {
		registry.Register(NewOllamaProvider(cfg, logger), circuitCfg)
	}

	if cfg.AnthropicAPIKey != "" {
		registry.Register(NewAnthropicProvider(cfg, logger), circuitCfg)
	}

	if cfg.GoogleAPIKey != "" {
		googleProvider, err := NewGoogleProvider(ctx, cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create Google LLM provider")
		} else {
			registry.Register(googleProvider, circuitCfg)
		}
	}
}

// New creates a chat client with multi-provider fallback support.
// Providers are tried in order: Groq, OpenAI, Ollama (local mode), Anthropic, Google.
// If none is configured it returns Unavailable.
func New(ctx context.Context, cfg config.LLMConfig, logger *zerolog.Logger) ChatCompleter {
	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	registry := NewRegistry(logger)
	registerProviders(ctx, registry, cfg, logger, buildCircuitConfig(cfg))

	if registry.ProviderCount() == 0 {
		logger.Warn().Msg("no LLM provider configured, model-based features disabled")

		return Unavailable{}
	}

	return registry
}

// Close releases provider resources held by c, if any.
func Close(c ChatCompleter) error {
	r, ok := c.(*Registry)
	if !ok {
		return nil
	}

	if err := r.Close(); err != nil {
		return fmt.Errorf("closing llm registry: %w", err)
	}

	return nil
}
