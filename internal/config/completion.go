package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkgconfig "nashr/pkg/config"
)

// Completion provider names accepted in COMPLETION_PROVIDER.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderCompatible = "openai-compatible"
	ProviderEcho       = "echo"
)

// CompletionConfig holds configuration for the completion provider.
type CompletionConfig struct {
	// Provider selects the backend. Default: "openai"
	Provider string

	// APIKey is the credential for Provider. Empty is allowed at load time;
	// calls then fail with a configuration error naming CredentialEnv.
	APIKey string

	// CredentialEnv is the environment variable APIKey was read from.
	CredentialEnv string

	// Model identifier. Default depends on Provider.
	Model string

	// BaseURL overrides the provider endpoint. Required for openai-compatible.
	BaseURL string

	// Temperature for sampling. Default: 0.7
	Temperature float64

	// MaxTokens caps the output. Default: 1024
	MaxTokens int

	// Timeout for each completion attempt; retries get a fresh one. Default: 60s
	Timeout time.Duration

	// MaxAttempts per call, 1 or 2. Default: 1
	MaxAttempts int

	// RPS limits outbound calls per second. 0 disables the throttle.
	RPS float64

	// Burst is the throttle bucket size. Default: 5
	Burst int

	// CircuitBreaker for provider calls.
	CircuitBreaker CircuitBreakerConfig
}

// CircuitBreakerConfig for provider resilience.
type CircuitBreakerConfig struct {
	// MaxRequests in half-open state.
	MaxRequests uint32

	// Interval for clearing failure counts.
	Interval time.Duration

	// Timeout before transitioning from open to half-open.
	Timeout time.Duration

	// FailureThreshold ratio to trip circuit (0.0 to 1.0).
	FailureThreshold float64

	// MinRequests before calculating failure ratio.
	MinRequests uint32
}

// credentialEnv maps a provider to the environment variable holding its key.
var credentialEnv = map[string]string{
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderAnthropic:  "ANTHROPIC_API_KEY",
	ProviderGemini:     "GEMINI_API_KEY",
	ProviderCompatible: "COMPLETION_API_KEY",
}

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
	ProviderGemini:    "gemini-2.5-flash",
	ProviderEcho:      "echo",
}

// LoadCompletionConfig loads completion configuration from environment variables.
func LoadCompletionConfig() (*CompletionConfig, error) {
	provider := strings.ToLower(strings.TrimSpace(getEnvOrDefault("COMPLETION_PROVIDER", ProviderOpenAI)))

	config := &CompletionConfig{
		Provider:    provider,
		BaseURL:     os.Getenv("COMPLETION_BASE_URL"),
		Temperature: getEnvFloat("COMPLETION_TEMPERATURE", 0.7),
		MaxTokens:   getEnvInt("COMPLETION_MAX_TOKENS", 1024),
		Timeout:     getEnvDuration("COMPLETION_TIMEOUT", 60*time.Second),
		MaxAttempts: getEnvInt("COMPLETION_MAX_ATTEMPTS", 1),
		RPS:         getEnvFloat("COMPLETION_RPS", 0),
		Burst:       getEnvInt("COMPLETION_BURST", 5),
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      uint32(getEnvInt("COMPLETION_CB_MAX_REQUESTS", 3)),
			Interval:         getEnvDuration("COMPLETION_CB_INTERVAL", 30*time.Second),
			Timeout:          getEnvDuration("COMPLETION_CB_TIMEOUT", 60*time.Second),
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
	}
	config.APIKey, config.CredentialEnv = resolveCredential(provider)
	config.Model = resolveModel(provider)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid completion configuration: %w", err)
	}

	return config, nil
}

// resolveCredential reads the provider's own key first, then COMPLETION_API_KEY.
// Gemini also accepts GOOGLE_API_KEY.
func resolveCredential(provider string) (string, string) {
	env, ok := credentialEnv[provider]
	if !ok {
		return "", ""
	}
	if v := os.Getenv(env); v != "" {
		return v, env
	}
	if provider == ProviderGemini {
		if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
			return v, "GOOGLE_API_KEY"
		}
	}
	return os.Getenv("COMPLETION_API_KEY"), env
}

func resolveModel(provider string) string {
	if provider == ProviderOpenAI {
		if m := os.Getenv("OPENAI_MODEL"); m != "" {
			return m
		}
	}
	return getEnvOrDefault("COMPLETION_MODEL", defaultModels[provider])
}

// HasCredential reports whether calls can be attempted. The echo provider needs none.
func (c *CompletionConfig) HasCredential() bool {
	return c.Provider == ProviderEcho || c.APIKey != ""
}

// Validate checks configuration correctness.
func (c *CompletionConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderEcho:
	case ProviderCompatible:
		if c.BaseURL == "" {
			return fmt.Errorf("COMPLETION_BASE_URL is required for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("unknown COMPLETION_PROVIDER %q", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("COMPLETION_MODEL cannot be empty")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("COMPLETION_TEMPERATURE must be between 0.0 and 2.0")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("COMPLETION_MAX_TOKENS must be positive")
	}

	if err := pkgconfig.ValidateDurationRange(c.Timeout, time.Second, 10*time.Minute); err != nil {
		return fmt.Errorf("COMPLETION_TIMEOUT: %w", err)
	}

	if c.MaxAttempts < 1 || c.MaxAttempts > 2 {
		return fmt.Errorf("COMPLETION_MAX_ATTEMPTS must be 1 or 2")
	}

	if c.RPS < 0 {
		return fmt.Errorf("COMPLETION_RPS cannot be negative")
	}

	if c.RPS > 0 && c.Burst < 1 {
		return fmt.Errorf("COMPLETION_BURST must be at least 1 when COMPLETION_RPS is set")
	}

	if c.CircuitBreaker.MaxRequests == 0 {
		return fmt.Errorf("COMPLETION_CB_MAX_REQUESTS must be positive")
	}

	if err := pkgconfig.ValidatePositiveDuration(c.CircuitBreaker.Interval); err != nil {
		return fmt.Errorf("COMPLETION_CB_INTERVAL: %w", err)
	}

	if err := pkgconfig.ValidatePositiveDuration(c.CircuitBreaker.Timeout); err != nil {
		return fmt.Errorf("COMPLETION_CB_TIMEOUT: %w", err)
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses integer environment variable with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat parses float environment variable with default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration parses duration environment variable with default.
// Supports formats like "30s", "1m", "2h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
