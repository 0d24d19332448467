package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/lueurxax/meeto/internal/core/errors"
	"github.com/lueurxax/meeto/internal/platform/config"
)

// openAICompatibleProvider talks to any OpenAI-style chat completions endpoint.
// Groq, OpenAI and Ollama all share this implementation with different base URLs.
type openAICompatibleProvider struct {
	name         ProviderName
	priority     int
	defaultModel string
	// jsonMode is false for servers that reject response_format.
	jsonMode     bool
	resolveModel func(model, fallback string) string
	client       *openai.Client
	logger       *zerolog.Logger
	rateLimiter  *rate.Limiter
}

// NewGroqProvider creates a provider for Groq's OpenAI-compatible API.
func NewGroqProvider(cfg config.LLMConfig, logger *zerolog.Logger) *openAICompatibleProvider {
	clientCfg := openai.DefaultConfig(cfg.GroqAPIKey)
	clientCfg.BaseURL = cfg.GroqBaseURL

	return newOpenAICompatible(ProviderGroq, PriorityPrimary, clientCfg, groqModel(cfg.Model), true, resolveGroqModel, cfg.RateLimitRPS, logger)
}

// NewOpenAIProvider creates a provider for the OpenAI API.
func NewOpenAIProvider(cfg config.LLMConfig, logger *zerolog.Logger) *openAICompatibleProvider {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return newOpenAICompatible(ProviderOpenAI, PriorityFallback, clientCfg, openAIModel(cfg.Model), true, resolveOpenAIModel, cfg.RateLimitRPS, logger)
}

// NewOllamaProvider creates a provider for a local Ollama server.
func NewOllamaProvider(cfg config.LLMConfig, logger *zerolog.Logger) *openAICompatibleProvider {
	clientCfg := openai.DefaultConfig(ollamaAPIKey)
	clientCfg.BaseURL = cfg.OllamaBaseURL

	return newOpenAICompatible(ProviderOllama, PrioritySecondFallback, clientCfg, cfg.OllamaModel, false, pinnedModel, cfg.RateLimitRPS, logger)
}

func newOpenAICompatible(
	name ProviderName,
	priority int,
	clientCfg openai.ClientConfig,
	defaultModel string,
	jsonMode bool,
	resolve func(model, fallback string) string,
	rps int,
	logger *zerolog.Logger,
) *openAICompatibleProvider {
	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	if rps <= 0 {
		rps = 1
	}

	return &openAICompatibleProvider{
		name:         name,
		priority:     priority,
		defaultModel: defaultModel,
		jsonMode:     jsonMode,
		resolveModel: resolve,
		client:       openai.NewClientWithConfig(clientCfg),
		logger:       logger,
		rateLimiter:  rate.NewLimiter(rate.Limit(float64(rps)), rateLimiterBurst),
	}
}

// groqModel keeps OpenAI model names away from Groq, which does not serve them.
func groqModel(model string) string {
	if model == "" || strings.HasPrefix(model, modelPrefixGPT) {
		return defaultGroqModel
	}

	return model
}

func resolveGroqModel(model, fallback string) string {
	if model == "" {
		return fallback
	}

	return groqModel(model)
}

// openAIModel keeps LLM_MODEL only when it names an OpenAI model, so a Groq
// model configured for the primary provider does not break this fallback.
func openAIModel(model string) string {
	if isOpenAIModel(model) {
		return model
	}

	return defaultOpenAIModel
}

func resolveOpenAIModel(model, fallback string) string {
	if isOpenAIModel(model) {
		return model
	}

	return fallback
}

func isOpenAIModel(model string) bool {
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}

	return false
}

// pinnedModel ignores per-request overrides; a local server only has what was pulled.
func pinnedModel(_, fallback string) string {
	return fallback
}

// Name returns the provider identifier.
func (p *openAICompatibleProvider) Name() ProviderName {
	return p.name
}

// IsAvailable returns true if the provider is configured and available.
func (p *openAICompatibleProvider) IsAvailable() bool {
	return p.client != nil
}

// Priority returns the provider priority.
func (p *openAICompatibleProvider) Priority() int {
	return p.priority
}

// Complete implements ChatCompleter.
func (p *openAICompatibleProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf(errRateLimiterSimple, err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       p.resolveModel(req.Model, p.defaultModel),
		Messages:    toOpenAIMessages(req.Messages),
		Temperature: req.Temperature,
	}

	if req.JSONMode && p.jsonMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf(errOpenAIChatCompletion, p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf(errOpenAIChatCompletion, p.name, errors.ErrEmptyResponse)
	}

	content := resp.Choices[0].Message.Content
	p.logger.Debug().Str(logKeyProvider, string(p.name)).Str(logKeyContent, content).Msg(logMsgResponse)

	return content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))

	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleSystem {
			role = openai.ChatMessageRoleSystem
		}

		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	return out
}

// Ensure openAICompatibleProvider implements Provider interface.
var _ Provider = (*openAICompatibleProvider)(nil)
