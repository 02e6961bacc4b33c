// Package circuitbreaker wraps sony/gobreaker with the presets nashr uses for its
// outbound dependencies.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config describes when a breaker trips and how it recovers.
//
// The breaker opens once at least MinRequests calls were seen in the current
// Interval and the failure ratio reaches FailureThreshold. It stays open for
// Timeout, then lets MaxRequests probes through.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32

	// IsSuccessful decides which errors count as failures. Nil means any error does.
	IsSuccessful func(err error) bool
}

// CompletionAPIConfig is the per-provider preset for completion calls.
func CompletionAPIConfig(provider string) Config {
	return Config{
		Name:             "completion-" + provider,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// TrendFeedConfig is the preset shared by all trend feeds.
func TrendFeedConfig() Config {
	return Config{
		Name:             "trend-feed",
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          2 * time.Minute,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

// SourceFetchConfig is the preset for fetching user supplied article URLs. Those
// hosts fail often, so the breaker is slow to trip and slow to recover.
func SourceFetchConfig() Config {
	return Config{
		Name:             "source-fetch",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          10 * time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// UsageGateConfig is the preset guarding a usage counter backend.
func UsageGateConfig(store string) Config {
	return Config{
		Name:             "usage-" + store,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// CircuitBreaker is a named gobreaker instance.
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New builds a breaker from cfg. State changes are logged at WARN.
func New(cfg Config) *CircuitBreaker {
	minRequests, threshold := cfg.MinRequests, cfg.FailureThreshold
	return &CircuitBreaker{
		name: cfg.Name,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.Requests >= minRequests &&
					float64(c.TotalFailures) >= threshold*float64(c.Requests)
			},
			IsSuccessful: cfg.IsSuccessful,
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state changed",
					slog.String("circuit", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}),
	}
}

// Execute runs fn unless the breaker is open, in which case it returns
// gobreaker.ErrOpenState (or ErrTooManyRequests while half-open).
func (b *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return b.cb.Execute(fn)
}

// Run is Execute with a typed result.
func Run[T any](b *CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (interface{}, error) { return fn() })
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func (b *CircuitBreaker) State() gobreaker.State { return b.cb.State() }

func (b *CircuitBreaker) Name() string { return b.name }

func (b *CircuitBreaker) IsOpen() bool { return b.cb.State() == gobreaker.StateOpen }
