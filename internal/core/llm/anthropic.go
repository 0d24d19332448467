package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lueurxax/meeto/internal/core/errors"
	"github.com/lueurxax/meeto/internal/platform/config"
)

// Anthropic model constants.
const (
	ModelClaudeHaiku = "claude-haiku-4.5"

	defaultAnthropicModel = ModelClaudeHaiku

	anthropicMaxTokensDefault = 4096

	contentTypeText = "text"
)

// anthropicProvider implements the Provider interface for Anthropic Claude.
type anthropicProvider struct {
	model       string
	client      anthropic.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
}

// NewAnthropicProvider creates a new Anthropic LLM provider.
func NewAnthropicProvider(cfg config.LLMConfig, logger *zerolog.Logger) *anthropicProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}

	rateLimit := cfg.RateLimitRPS
	if rateLimit <= 0 {
		rateLimit = 1
	}

	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	return &anthropicProvider{
		model:       cfg.AnthropicModel,
		client:      anthropic.NewClient(opts...),
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rateLimit)), rateLimiterBurst),
	}
}

// Name returns the provider identifier.
func (p *anthropicProvider) Name() ProviderName {
	return ProviderAnthropic
}

// IsAvailable returns true if the provider is configured and available.
func (p *anthropicProvider) IsAvailable() bool {
	return true
}

// Priority returns the provider priority.
func (p *anthropicProvider) Priority() int {
	return PriorityThirdFallback
}

// resolveModel returns the appropriate model name for Anthropic.
// Requests naming another vendor's model fall back to the configured Claude model.
func (p *anthropicProvider) resolveModel(model string) string {
	if strings.HasPrefix(model, modelPrefixClaude) {
		return model
	}

	if p.model != "" {
		return p.model
	}

	return defaultAnthropicModel
}

// Complete implements ChatCompleter.
func (p *anthropicProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf(errRateLimiterSimple, err)
	}

	system, turns := splitSystem(req.Messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.resolveModel(req.Model)),
		MaxTokens:   anthropicMaxTokensDefault,
		Messages:    toAnthropicMessages(turns),
		Temperature: anthropic.Float(float64(req.Temperature)),
	}

	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf(errAnthropicCompletion, err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf(errAnthropicCompletion, errors.ErrEmptyResponse)
	}

	content := extractTextFromResponse(resp)
	p.logger.Debug().Str(logKeyProvider, string(ProviderAnthropic)).Str(logKeyContent, content).Msg(logMsgResponse)

	return content, nil
}

func toAnthropicMessages(turns []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(turns))
	for _, m := range turns {
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	return out
}

// extractTextFromResponse extracts text content from Anthropic response.
func extractTextFromResponse(resp *anthropic.Message) string {
	var result strings.Builder

	for _, block := range resp.Content {
		if block.Type == contentTypeText {
			result.WriteString(block.Text)
		}
	}

	return result.String()
}

// Ensure anthropicProvider implements Provider interface.
var _ Provider = (*anthropicProvider)(nil)
