package completion

import (
	"context"
	"fmt"
	"net/http"

	"nashr/internal/config"
	"nashr/internal/domain/entity"
	"nashr/internal/resilience/circuitbreaker"
)

// Client is the configured, guarded provider the application talks to.
type Client struct {
	guard         *Guard
	hasCredential bool
	credentialEnv string
}

// Status is the readiness view of a Client.
type Status struct {
	Provider          string `json:"provider"`
	Model             string `json:"model"`
	CredentialPresent bool   `json:"credential_present"`
	CredentialEnv     string `json:"credential_env,omitempty"`
	CircuitState      string `json:"circuit_state"`
}

// New builds the provider named by cfg and wraps it with throttling and the guard.
// httpClient and metrics may be nil.
func New(cfg *config.CompletionConfig, httpClient *http.Client, metrics MetricsRecorder) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("completion config is nil")
	}
	if metrics == nil {
		metrics = NewPrometheusMetrics()
	}

	provider, err := newProvider(cfg, httpClient)
	if err != nil {
		return nil, err
	}

	breaker := circuitbreaker.CompletionAPIConfig(provider.Name())
	breaker.MaxRequests = cfg.CircuitBreaker.MaxRequests
	breaker.Interval = cfg.CircuitBreaker.Interval
	breaker.Timeout = cfg.CircuitBreaker.Timeout
	breaker.FailureThreshold = cfg.CircuitBreaker.FailureThreshold
	breaker.MinRequests = cfg.CircuitBreaker.MinRequests

	guard := NewGuard(NewThrottle(provider, cfg.RPS, cfg.Burst, metrics), GuardConfig{
		Timeout:        cfg.Timeout,
		MaxAttempts:    cfg.MaxAttempts,
		CircuitBreaker: breaker,
		Metrics:        metrics,
	})

	return &Client{
		guard:         guard,
		hasCredential: cfg.HasCredential(),
		credentialEnv: cfg.CredentialEnv,
	}, nil
}

func newProvider(cfg *config.CompletionConfig, httpClient *http.Client) (Provider, error) {
	opts := Options{
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.CredentialEnv, opts, httpClient), nil
	case config.ProviderAnthropic:
		return NewClaude(cfg.APIKey, cfg.CredentialEnv, opts, httpClient), nil
	case config.ProviderGemini:
		return NewGemini(cfg.APIKey, cfg.CredentialEnv, opts, httpClient), nil
	case config.ProviderCompatible:
		return NewCompatible(cfg.APIKey, opts, httpClient), nil
	case config.ProviderEcho:
		return NewEcho(), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

// Complete implements generate.Completer.
func (c *Client) Complete(ctx context.Context, prompt entity.PromptPayload) (string, error) {
	return c.guard.Complete(ctx, prompt)
}

// Status reports provider, model, credential presence and breaker state.
func (c *Client) Status() Status {
	return Status{
		Provider:          c.guard.Name(),
		Model:             c.guard.Model(),
		CredentialPresent: c.hasCredential,
		CredentialEnv:     c.credentialEnv,
		CircuitState:      c.guard.CircuitState(),
	}
}

// Ready reports whether requests can be attempted at all.
func (c *Client) Ready() bool {
	return c.hasCredential
}
