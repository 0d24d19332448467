package llm

// ProviderName identifies an LLM provider.
type ProviderName string

// Provider name constants.
const (
	ProviderGroq      ProviderName = "groq"
	ProviderOpenAI    ProviderName = "openai"
	ProviderOllama    ProviderName = "ollama"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGoogle    ProviderName = "google"
)

// Priority constants for provider ordering.
const (
	PriorityPrimary        = 100 // Groq
	PriorityFallback       = 50  // OpenAI
	PrioritySecondFallback = 25  // Ollama
	PriorityThirdFallback  = 10  // Anthropic
	PriorityFourthFallback = 5   // Google
)

// Provider defines the interface for LLM providers.
type Provider interface {
	ChatCompleter

	// Name returns the provider identifier.
	Name() ProviderName

	// IsAvailable returns true if the provider is configured and available.
	IsAvailable() bool

	// Priority returns the provider priority (higher = preferred).
	Priority() int
}
