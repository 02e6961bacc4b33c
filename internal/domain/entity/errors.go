package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")

	// ErrConfiguration indicates that a completion provider is not usable as configured,
	// typically because its credential is missing.
	ErrConfiguration = errors.New("completion provider misconfigured")

	// ErrUpstream indicates that the completion provider answered with a non-success status.
	ErrUpstream = errors.New("completion provider returned an error")

	// ErrTransport indicates that the completion provider could not be reached
	// (network failure, timeout, open circuit).
	ErrTransport = errors.New("completion provider unreachable")

	// ErrAttemptTimeout indicates that one completion attempt hit its own timeout while
	// the caller was still waiting. It travels inside a transport error and is retried.
	ErrAttemptTimeout = errors.New("completion attempt timed out")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is reports ErrValidationFailed as a match so callers can use errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// CompletionErrorKind classifies a completion failure.
type CompletionErrorKind int

const (
	// KindConfiguration: the call was never attempted.
	KindConfiguration CompletionErrorKind = iota + 1
	// KindUpstream: the provider answered with a non-success status.
	KindUpstream
	// KindTransport: network failure, timeout or open circuit.
	KindTransport
)

// String returns the metric/log label for the kind.
func (k CompletionErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// CompletionError is returned by every completion provider.
// StatusCode is only meaningful for KindUpstream.
type CompletionError struct {
	Kind       CompletionErrorKind
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *CompletionError) Error() string {
	switch {
	case e.Kind == KindUpstream && e.StatusCode > 0:
		return fmt.Sprintf("%s: upstream status %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", e.Provider, e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Is maps the kind onto the package sentinels.
func (e *CompletionError) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrUpstream:
		return e.Kind == KindUpstream
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}

// Temporary reports whether repeating the call may succeed: transport failures and
// upstream 408, 429 and 5xx answers.
func (e *CompletionError) Temporary() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindUpstream:
		return e.StatusCode == 408 || e.StatusCode == 429 || e.StatusCode >= 500
	default:
		return false
	}
}

// NewConfigurationError builds a KindConfiguration error.
func NewConfigurationError(provider, message string) *CompletionError {
	return &CompletionError{Kind: KindConfiguration, Provider: provider, Message: message}
}

// NewUpstreamError builds a KindUpstream error.
func NewUpstreamError(provider string, status int, message string, err error) *CompletionError {
	return &CompletionError{Kind: KindUpstream, Provider: provider, StatusCode: status, Message: message, Err: err}
}

// NewTransportError builds a KindTransport error.
func NewTransportError(provider string, err error) *CompletionError {
	return &CompletionError{Kind: KindTransport, Provider: provider, Err: err}
}
