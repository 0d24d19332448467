package config

import "time"

// LLMConfig holds chat model provider settings.
type LLMConfig struct {
	Model string

	GroqAPIKey  string
	GroqBaseURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	AnthropicAPIKey string
	AnthropicModel  string

	GoogleAPIKey string
	GoogleModel  string

	LocalModeEnabled bool
	OllamaBaseURL    string
	OllamaModel      string

	RateLimitRPS int

	// Circuit breaker
	CircuitThreshold int
	CircuitTimeout   time.Duration
}

// JiraConfig holds issue tracker connection settings.
type JiraConfig struct {
	BaseURL         string
	Email           string
	APIToken        string
	ProjectKey      string
	IssueType       string
	DefaultPriority string
	Timeout         time.Duration
	RPS             float64
}

// Configured reports whether the tracker credentials are complete.
func (j JiraConfig) Configured() bool {
	return j.BaseURL != "" && j.Email != "" && j.APIToken != ""
}

// ExtractionConfig holds task extraction settings.
type ExtractionConfig struct {
	ConfidenceThreshold float64
	NormalizeEnabled    bool
}

// WatchConfig holds inbox polling settings.
type WatchConfig struct {
	Dir        string
	Interval   time.Duration
	HealthPort int
}

// LLMCfg returns the LLM provider configuration.
func (c *Config) LLMCfg() LLMConfig {
	return LLMConfig{
		Model:            c.LLMModel,
		GroqAPIKey:       c.GroqAPIKey,
		GroqBaseURL:      c.GroqBaseURL,
		OpenAIAPIKey:     c.OpenAIAPIKey,
		OpenAIBaseURL:    c.OpenAIBaseURL,
		AnthropicAPIKey:  c.AnthropicAPIKey,
		AnthropicModel:   c.AnthropicModel,
		GoogleAPIKey:     c.GoogleAPIKey,
		GoogleModel:      c.GoogleModel,
		LocalModeEnabled: c.LocalModeEnabled,
		OllamaBaseURL:    c.OllamaBaseURL,
		OllamaModel:      c.OllamaModel,
		RateLimitRPS:     c.RateLimitRPS,
		CircuitThreshold: c.LLMCircuitThresh,
		CircuitTimeout:   c.LLMCircuitTime,
	}
}

// JiraCfg returns the issue tracker configuration.
func (c *Config) JiraCfg() JiraConfig {
	return JiraConfig{
		BaseURL:         c.JiraBaseURL,
		Email:           c.JiraEmail,
		APIToken:        c.JiraAPIToken,
		ProjectKey:      c.JiraProjectKey,
		IssueType:       c.JiraIssueType,
		DefaultPriority: c.JiraDefaultPriority,
		Timeout:         c.JiraTimeout,
		RPS:             c.JiraRPS,
	}
}

// ExtractionCfg returns the task extraction configuration.
func (c *Config) ExtractionCfg() ExtractionConfig {
	return ExtractionConfig{
		ConfidenceThreshold: c.TaskConfidenceThreshold,
		NormalizeEnabled:    c.NormalizeTasks,
	}
}

// WatchCfg returns the inbox polling configuration.
func (c *Config) WatchCfg() WatchConfig {
	return WatchConfig{
		Dir:        c.WatchDir,
		Interval:   c.WatchInterval,
		HealthPort: c.HealthPort,
	}
}
