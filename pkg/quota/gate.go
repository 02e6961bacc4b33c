package quota

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"nashr/internal/resilience/circuitbreaker"
)

// Gate enforces a daily per-identity ceiling on top of an AtomicStore.
//
// Store failures fail open: the request is allowed, not counted, and the
// decision is marked Degraded. After repeated failures the breaker opens and
// the store is skipped entirely until it recovers.
type Gate struct {
	store     AtomicStore
	storeName string
	limit     int
	clock     Clock
	metrics   Metrics
	breaker   *circuitbreaker.CircuitBreaker
}

// GateConfig holds configuration for Gate.
type GateConfig struct {
	// Limit is the daily ceiling. Zero or negative disables the gate.
	Limit int

	// StoreName labels logs and metrics ("memory", "redis", "postgres").
	StoreName string

	// Clock defaults to SystemClock.
	Clock Clock

	// Metrics defaults to NoOpMetrics.
	Metrics Metrics
}

// NewGate creates a gate over store.
func NewGate(store AtomicStore, config GateConfig) *Gate {
	if config.Clock == nil {
		config.Clock = &SystemClock{}
	}
	if config.Metrics == nil {
		config.Metrics = NoOpMetrics{}
	}
	if config.StoreName == "" {
		config.StoreName = "memory"
	}

	breaker := circuitbreaker.New(circuitbreaker.UsageGateConfig(config.StoreName))
	config.Metrics.RecordCircuitState(config.StoreName, breaker.State().String())

	return &Gate{
		store:     store,
		storeName: config.StoreName,
		limit:     config.Limit,
		clock:     config.Clock,
		metrics:   config.Metrics,
		breaker:   breaker,
	}
}

// Enabled reports whether the gate enforces a ceiling.
func (g *Gate) Enabled() bool {
	return g != nil && g.limit > 0
}

// Limit returns the daily ceiling.
func (g *Gate) Limit() int {
	return g.limit
}

// Check counts one request for identity. It returns ErrLimitExceeded together
// with the decision when identity is at or above the ceiling; the counter is
// not incremented in that case.
func (g *Gate) Check(ctx context.Context, identity string) (*Decision, error) {
	now := g.clock.Now()
	key := DailyKey(identity, now)
	if !g.Enabled() {
		return &Decision{Key: key, Allowed: true, ResetAt: NextReset(now)}, nil
	}

	start := time.Now()
	var allowed bool
	var count int
	_, err := g.breaker.Execute(func() (interface{}, error) {
		var err error
		allowed, count, err = g.store.CheckAndIncrement(ctx, key, g.limit)
		return nil, err
	})
	g.metrics.RecordCheckDuration(g.storeName, time.Since(start))
	g.metrics.RecordCircuitState(g.storeName, g.breaker.State().String())

	if err != nil {
		g.metrics.RecordDecision(g.storeName, "error")
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.WarnContext(ctx, "usage store circuit open, allowing request",
				slog.String("store", g.storeName))
		} else {
			slog.ErrorContext(ctx, "usage store failed, allowing request",
				slog.String("store", g.storeName),
				slog.String("key", key),
				slog.Any("error", err))
		}
		d := newDecision(key, true, g.limit, 0, now)
		d.Degraded = true
		return d, nil
	}

	d := newDecision(key, allowed, g.limit, count, now)
	if !allowed {
		g.metrics.RecordDecision(g.storeName, "denied")
		slog.InfoContext(ctx, "daily usage limit reached",
			slog.String("key", key),
			slog.Int("limit", g.limit))
		return d, ErrLimitExceeded
	}

	g.metrics.RecordDecision(g.storeName, "allowed")
	return d, nil
}

// Usage returns the current count for identity today without changing it.
func (g *Gate) Usage(ctx context.Context, identity string) (int, error) {
	return g.store.Get(ctx, DailyKey(identity, g.clock.Now()))
}
