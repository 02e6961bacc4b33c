package entity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "missing topic",
			field:    "text",
			message:  "Missing text",
			expected: "validation error on field 'text': Missing text",
		},
		{
			name:     "empty field name",
			field:    "",
			message:  "test message",
			expected: "validation error on field '': test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_WithErrors(t *testing.T) {
	err := fmt.Errorf("build request: %w", &ValidationError{Field: "text", Message: "Missing text"})

	assert.True(t, errors.Is(err, ErrValidationFailed))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "text", validationErr.Field)
}

func TestCompletionError_Is(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		match error
		other []error
	}{
		{
			name:  "configuration",
			err:   NewConfigurationError("openai", "missing OPENAI_API_KEY"),
			match: ErrConfiguration,
			other: []error{ErrUpstream, ErrTransport},
		},
		{
			name:  "upstream",
			err:   NewUpstreamError("openai", 401, "invalid api key", nil),
			match: ErrUpstream,
			other: []error{ErrConfiguration, ErrTransport},
		},
		{
			name:  "transport",
			err:   NewTransportError("openai", context.DeadlineExceeded),
			match: ErrTransport,
			other: []error{ErrConfiguration, ErrUpstream},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("generate: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.match))
			for _, o := range tt.other {
				assert.False(t, errors.Is(wrapped, o))
			}
		})
	}
}

func TestCompletionError_Unwrap(t *testing.T) {
	err := NewTransportError("claude", context.DeadlineExceeded)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCompletionError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CompletionError
		expected string
	}{
		{
			name:     "upstream with status",
			err:      NewUpstreamError("openai", 429, "quota exceeded", nil),
			expected: "openai: upstream status 429: quota exceeded",
		},
		{
			name:     "configuration message",
			err:      NewConfigurationError("openai", "missing OPENAI_API_KEY"),
			expected: "openai: missing OPENAI_API_KEY",
		},
		{
			name:     "transport cause",
			err:      NewTransportError("gemini", errors.New("connection refused")),
			expected: "gemini: connection refused",
		},
		{
			name:     "bare kind",
			err:      &CompletionError{Kind: KindTransport, Provider: "echo"},
			expected: "echo: transport error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestCompletionErrorKind_String(t *testing.T) {
	assert.Equal(t, "configuration", KindConfiguration.String())
	assert.Equal(t, "upstream", KindUpstream.String())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "unknown", CompletionErrorKind(0).String())
}

func TestCompletionError_Temporary(t *testing.T) {
	tests := []struct {
		name string
		err  *CompletionError
		want bool
	}{
		{name: "configuration", err: NewConfigurationError("openai", "missing OPENAI_API_KEY"), want: false},
		{name: "transport", err: NewTransportError("openai", errors.New("dial tcp")), want: true},
		{name: "upstream 500", err: NewUpstreamError("openai", 500, "boom", nil), want: true},
		{name: "upstream 429", err: NewUpstreamError("openai", 429, "slow down", nil), want: true},
		{name: "upstream 401", err: NewUpstreamError("openai", 401, "bad key", nil), want: false},
		{name: "upstream 400", err: NewUpstreamError("anthropic", 400, "bad request", nil), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Temporary())
		})
	}
}
