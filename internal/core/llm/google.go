package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/lueurxax/meeto/internal/core/errors"
	"github.com/lueurxax/meeto/internal/platform/config"
)

// Google model constants.
const (
	// ModelGeminiFlashLite is the cheapest/fastest Google model.
	ModelGeminiFlashLite = "gemini-2.5-flash-lite"

	defaultGoogleModel = ModelGeminiFlashLite

	mimeTypeJSON = "application/json"
)

// sanitizeUTF8 replaces invalid UTF-8 sequences.
// Google's protobuf API requires valid UTF-8 and transcripts from speech engines occasionally are not.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// googleProvider implements the Provider interface for Google Gemini.
type googleProvider struct {
	model       string
	client      *genai.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
}

// NewGoogleProvider creates a new Google Gemini LLM provider.
func NewGoogleProvider(ctx context.Context, cfg config.LLMConfig, logger *zerolog.Logger) (*googleProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GoogleAPIKey))
	if err != nil {
		return nil, fmt.Errorf("creating google genai client: %w", err)
	}

	rateLimit := cfg.RateLimitRPS
	if rateLimit <= 0 {
		rateLimit = 1
	}

	if logger == nil {
		nopLogger := zerolog.Nop()
		logger = &nopLogger
	}

	return &googleProvider{
		model:       cfg.GoogleModel,
		client:      client,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rateLimit)), rateLimiterBurst),
	}, nil
}

// Close closes the Google client.
func (p *googleProvider) Close() error {
	if p.client != nil {
		if err := p.client.Close(); err != nil {
			return fmt.Errorf("closing google genai client: %w", err)
		}
	}

	return nil
}

// Name returns the provider identifier.
func (p *googleProvider) Name() ProviderName {
	return ProviderGoogle
}

// IsAvailable returns true if the provider is configured and available.
func (p *googleProvider) IsAvailable() bool {
	return p.client != nil
}

// Priority returns the provider priority.
func (p *googleProvider) Priority() int {
	return PriorityFourthFallback
}

// resolveModel returns the appropriate model name for Google.
func (p *googleProvider) resolveModel(model string) string {
	if strings.HasPrefix(model, modelPrefixGemini) {
		return model
	}

	if p.model != "" {
		return p.model
	}

	return defaultGoogleModel
}

// Complete implements ChatCompleter.
func (p *googleProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf(errRateLimiterSimple, err)
	}

	system, turns := splitSystem(req.Messages)

	genModel := p.client.GenerativeModel(p.resolveModel(req.Model))
	genModel.SetTemperature(req.Temperature)

	if system != "" {
		genModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(sanitizeUTF8(system))}}
	}

	if req.JSONMode {
		genModel.ResponseMIMEType = mimeTypeJSON
	}

	parts := make([]genai.Part, 0, len(turns))
	for _, m := range turns {
		parts = append(parts, genai.Text(sanitizeUTF8(m.Content)))
	}

	resp, err := genModel.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf(errGoogleGenAICompletion, err)
	}

	content := extractGoogleResponseText(resp)
	if content == "" {
		return "", fmt.Errorf(errGoogleGenAICompletion, errors.ErrEmptyResponse)
	}

	p.logger.Debug().Str(logKeyProvider, string(ProviderGoogle)).Str(logKeyContent, content).Msg(logMsgResponse)

	return content, nil
}

func extractGoogleResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var result strings.Builder

	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					result.WriteString(string(text))
				}
			}
		}
	}

	return result.String()
}

// Ensure googleProvider implements Provider interface.
var _ Provider = (*googleProvider)(nil)
