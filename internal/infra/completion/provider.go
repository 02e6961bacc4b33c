// Package completion provides the language model backends used to generate posts.
// It includes adapters for OpenAI, Anthropic Claude, Google Gemini and any
// OpenAI-compatible gateway, plus an offline echo provider, and wraps them with
// timeout, circuit breaker, retry and throttling.
//
// Every failure is returned as *entity.CompletionError so callers can map it by kind.
package completion

import (
	"context"

	"nashr/internal/domain/entity"
)

// Provider sends one prompt to a model.
type Provider interface {
	// Complete returns the first text content of the answer. A structurally
	// empty answer is "" with a nil error.
	Complete(ctx context.Context, prompt entity.PromptPayload) (string, error)

	// Name is the provider label used in errors, logs and metrics.
	Name() string

	// Model is the model identifier requests are sent to.
	Model() string
}

// Options are the sampling settings shared by all providers.
type Options struct {
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}
