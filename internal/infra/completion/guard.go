package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nashr/internal/domain/entity"
	"nashr/internal/observability/tracing"
	"nashr/internal/resilience/circuitbreaker"
	"nashr/internal/resilience/retry"
	"nashr/internal/utils/text"
)

// Guard wraps a Provider with a per-attempt timeout, a circuit breaker and retries.
// Only transport failures and upstream 408/429/5xx count against the breaker or
// are retried; a missing key or a rejected prompt is returned at once.
type Guard struct {
	next    Provider
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	timeout time.Duration
	metrics MetricsRecorder
}

// GuardConfig configures a Guard.
type GuardConfig struct {
	Timeout        time.Duration
	MaxAttempts    int
	CircuitBreaker circuitbreaker.Config
	Metrics        MetricsRecorder
}

// NewGuard wraps next. Zero values in cfg fall back to a 60s timeout, a single
// attempt, the completion breaker preset and Prometheus metrics.
func NewGuard(next Provider, cfg GuardConfig) *Guard {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.CircuitBreaker.Name == "" {
		cfg.CircuitBreaker = circuitbreaker.CompletionAPIConfig(next.Name())
	}
	cfg.CircuitBreaker.IsSuccessful = countsAsSuccess
	if cfg.Metrics == nil {
		cfg.Metrics = NewPrometheusMetrics()
	}

	return &Guard{
		next:    next,
		breaker: circuitbreaker.New(cfg.CircuitBreaker),
		retry:   retry.CompletionConfig(cfg.MaxAttempts),
		timeout: cfg.Timeout,
		metrics: cfg.Metrics,
	}
}

// countsAsSuccess tells the breaker which outcomes say nothing about provider health.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var ce *entity.CompletionError
	if errors.As(err, &ce) {
		return !ce.Temporary()
	}
	return false
}

// Name implements Provider.
func (g *Guard) Name() string { return g.next.Name() }

// Model implements Provider.
func (g *Guard) Model() string { return g.next.Model() }

// CircuitState reports the breaker state for readiness checks.
func (g *Guard) CircuitState() string {
	return g.breaker.State().String()
}

// Complete implements Provider.
func (g *Guard) Complete(ctx context.Context, prompt entity.PromptPayload) (string, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "completion.Complete",
		trace.WithAttributes(
			attribute.String("nashr.provider", g.next.Name()),
			attribute.String("nashr.model", g.next.Model()),
			attribute.Bool("nashr.json", prompt.JSON),
		))
	defer span.End()

	start := time.Now()
	var result string

	retryErr := retry.WithBackoff(ctx, g.retry, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		out, err := circuitbreaker.Run(g.breaker, func() (string, error) {
			return g.next.Complete(attemptCtx, prompt)
		})
		if err != nil {
			if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
				return entity.NewTransportError(g.next.Name(), fmt.Errorf("%w after %s", entity.ErrAttemptTimeout, g.timeout))
			}
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				slog.WarnContext(ctx, "completion circuit breaker open, request rejected",
					slog.String("provider", g.next.Name()),
					slog.String("state", g.breaker.State().String()))
				return entity.NewTransportError(g.next.Name(), fmt.Errorf("circuit breaker open: %w", err))
			}
			return err
		}
		result = out
		return nil
	})

	duration := time.Since(start)
	if retryErr != nil {
		err := g.normalize(retryErr)
		kind := "transport"
		var ce *entity.CompletionError
		if errors.As(err, &ce) {
			kind = ce.Kind.String()
		}
		g.metrics.RecordCall(g.next.Name(), kind, duration)

		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		slog.ErrorContext(ctx, "Completion failed",
			slog.String("provider", g.next.Name()),
			slog.String("kind", kind),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", err
	}

	runes := text.CountRunes(result)
	g.metrics.RecordCall(g.next.Name(), "success", duration)
	g.metrics.RecordOutputLength(g.next.Name(), runes)
	span.SetAttributes(attribute.Int("nashr.output_runes", runes))

	slog.InfoContext(ctx, "Completion finished",
		slog.String("provider", g.next.Name()),
		slog.String("model", g.next.Model()),
		slog.Int("output_length", runes),
		slog.Duration("duration", duration))

	return result, nil
}

// normalize strips the retry wrapper and guarantees a *entity.CompletionError.
func (g *Guard) normalize(err error) error {
	var ce *entity.CompletionError
	if errors.As(err, &ce) {
		return ce
	}
	return entity.NewTransportError(g.next.Name(), err)
}
