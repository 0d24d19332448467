package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	minConfidenceThreshold = 0.0
	maxConfidenceThreshold = 1.0
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LLM providers
	LLMModel         string        `env:"LLM_MODEL"`
	GroqAPIKey       string        `env:"GROQ_API_KEY"`
	GroqBaseURL      string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	AnthropicAPIKey  string        `env:"ANTHROPIC_API_KEY"`
	AnthropicModel   string        `env:"ANTHROPIC_MODEL"`
	GoogleAPIKey     string        `env:"GOOGLE_API_KEY"`
	GoogleModel      string        `env:"GOOGLE_MODEL"`
	LocalModeEnabled bool          `env:"ENABLE_LOCAL_MODE" envDefault:"false"`
	OllamaBaseURL    string        `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434/v1"`
	OllamaModel      string        `env:"OLLAMA_MODEL" envDefault:"llama3.2"`
	RateLimitRPS     int           `env:"RATE_LIMIT_RPS" envDefault:"1"`
	LLMCircuitThresh int           `env:"LLM_CIRCUIT_THRESHOLD" envDefault:"5"`
	LLMCircuitTime   time.Duration `env:"LLM_CIRCUIT_TIMEOUT" envDefault:"1m"`

	// Task extraction
	TaskConfidenceThreshold float64 `env:"TASK_CONFIDENCE_THRESHOLD" envDefault:"0.4"`
	NormalizeTasks          bool    `env:"NORMALIZE_TASKS" envDefault:"true"`

	// Jira
	JiraBaseURL         string        `env:"JIRA_BASE_URL"`
	JiraEmail           string        `env:"JIRA_EMAIL"`
	JiraAPIToken        string        `env:"JIRA_API_TOKEN"`
	JiraProjectKey      string        `env:"JIRA_PROJECT_KEY"`
	JiraIssueType       string        `env:"JIRA_ISSUE_TYPE" envDefault:"Task"`
	JiraDefaultPriority string        `env:"JIRA_DEFAULT_PRIORITY" envDefault:"Medium"`
	JiraTimeout         time.Duration `env:"JIRA_TIMEOUT" envDefault:"30s"`
	JiraRPS             float64       `env:"JIRA_RPS" envDefault:"5"`

	// Runtime
	HealthPort    int           `env:"HEALTH_PORT" envDefault:"8080"`
	WatchDir      string        `env:"WATCH_DIR" envDefault:"./inbox"`
	WatchInterval time.Duration `env:"WATCH_INTERVAL" envDefault:"30s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	applyAliases(cfg)
	clampThreshold(cfg)

	return cfg, nil
}

// applyAliases honours the generic LLM_API_KEY name used by older deployments.
func applyAliases(cfg *Config) {
	if cfg.OpenAIAPIKey == "" {
		setStringFromEnv("LLM_API_KEY", &cfg.OpenAIAPIKey)
	}

	if cfg.JiraAPIToken == "" {
		setStringFromEnv("JIRA_TOKEN", &cfg.JiraAPIToken)
	}

	if !hasEnv("NORMALIZE_TASKS") {
		setBoolFromEnv("TASK_NORMALIZE", &cfg.NormalizeTasks)
	}

	if !hasEnv("TASK_CONFIDENCE_THRESHOLD") {
		setFloat64FromEnv("CONFIDENCE_THRESHOLD", &cfg.TaskConfidenceThreshold)
	}
}

func clampThreshold(cfg *Config) {
	if cfg.TaskConfidenceThreshold < minConfidenceThreshold {
		cfg.TaskConfidenceThreshold = minConfidenceThreshold
	}

	if cfg.TaskConfidenceThreshold > maxConfidenceThreshold {
		cfg.TaskConfidenceThreshold = maxConfidenceThreshold
	}
}

func hasEnv(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func setStringFromEnv(key string, target *string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	val = strings.TrimSpace(val)
	if val == "" {
		return
	}

	*target = val
}

func setBoolFromEnv(key string, target *bool) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return
	}

	*target = parsed
}

func setFloat64FromEnv(key string, target *float64) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return
	}

	*target = parsed
}
