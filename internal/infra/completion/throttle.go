package completion

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"nashr/internal/domain/entity"
)

// Throttle limits outbound calls to a provider with a token bucket.
type Throttle struct {
	next    Provider
	limiter *rate.Limiter
	metrics MetricsRecorder
}

// NewThrottle wraps next with a limiter of rps calls per second and the given burst.
// A non-positive rps disables throttling and returns next unchanged.
func NewThrottle(next Provider, rps float64, burst int, metrics MetricsRecorder) Provider {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	if metrics == nil {
		metrics = NewPrometheusMetrics()
	}
	return &Throttle{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		metrics: metrics,
	}
}

// Name implements Provider.
func (t *Throttle) Name() string { return t.next.Name() }

// Model implements Provider.
func (t *Throttle) Model() string { return t.next.Model() }

// Complete implements Provider.
func (t *Throttle) Complete(ctx context.Context, prompt entity.PromptPayload) (string, error) {
	start := time.Now()
	if err := t.limiter.Wait(ctx); err != nil {
		return "", entity.NewTransportError(t.next.Name(), err)
	}
	t.metrics.RecordThrottleWait(t.next.Name(), time.Since(start))
	return t.next.Complete(ctx, prompt)
}
