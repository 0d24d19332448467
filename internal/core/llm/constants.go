package llm

import "time"

// Error message templates
const (
	errRateLimiterSimple     = "rate limiter: %w"
	errOpenAIChatCompletion  = "%s chat completion: %w"
	errAnthropicCompletion   = "anthropic completion: %w"
	errGoogleGenAICompletion = "google genai completion: %w"
)

// Model defaults
const (
	defaultGroqModel   = "llama-3.1-70b-versatile"
	defaultOpenAIModel = "gpt-4o-mini"
	modelPrefixGPT     = "gpt-"
	modelPrefixClaude  = "claude"
	modelPrefixGemini  = "gemini"
	ollamaAPIKey       = "ollama"
)

// openAIModelPrefixes are the model families served by the OpenAI API.
var openAIModelPrefixes = []string{modelPrefixGPT, "chatgpt-", "o1", "o3", "o4"}

// Rate limiter and circuit breaker defaults
const (
	rateLimiterBurst        = 5
	defaultCircuitThreshold = 5
	defaultCircuitTimeout   = 1 * time.Minute
)

// Log message strings
const (
	logMsgCircuitBreakerOpen = "skipping provider - circuit breaker open"
	logMsgProviderFailed     = "LLM provider failed, trying fallback"
	logMsgFallbackUsed       = "used fallback LLM provider"
	logMsgResponse           = "LLM response"
)

// Log key strings
const (
	logKeyProvider     = "provider"
	logKeyModel        = "model"
	logKeyTask         = "task"
	logKeyFromProvider = "from_provider"
	logKeyContent      = "content"
	logKeyDuration     = "duration_seconds"
)

// Metric gauge values
const (
	MetricValueAvailable   = 1.0
	MetricValueUnavailable = 0.0
)
