package completion

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder abstracts completion metrics so tests can inject a fake.
type MetricsRecorder interface {
	// RecordCall records one completed call: its provider, outcome label and duration.
	RecordCall(provider, result string, duration time.Duration)

	// RecordOutputLength records the rune length of a successful answer.
	RecordOutputLength(provider string, runes int)

	// RecordThrottleWait records time spent waiting for the outbound rate limiter.
	RecordThrottleWait(provider string, wait time.Duration)
}

// PrometheusMetrics implements MetricsRecorder using Prometheus metrics.
type PrometheusMetrics struct {
	calls        *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	outputLength *prometheus.HistogramVec
	throttleWait *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateCounterVec gets an existing counter vector or creates a new one if it doesn't exist
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// getOrCreateHistogramVec gets an existing histogram vector or creates a new one if it doesn't exist
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// NewPrometheusMetrics returns the process-wide Prometheus recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			calls: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "nashr_completion_calls_total",
				Help: "Completion calls by provider and result (success, configuration, upstream, transport)",
			}, []string{"provider", "result"}),
			duration: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "nashr_completion_duration_seconds",
				Help:    "Time taken by a completion call including retries",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			}, []string{"provider"}),
			outputLength: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "nashr_completion_output_runes",
				Help:    "Length of raw completion answers in characters (Unicode runes)",
				Buckets: []float64{50, 140, 280, 500, 1000, 2000, 3000, 5000},
			}, []string{"provider"}),
			throttleWait: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "nashr_completion_throttle_wait_seconds",
				Help:    "Time spent waiting for the outbound completion rate limiter",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordCall implements MetricsRecorder.
func (p *PrometheusMetrics) RecordCall(provider, result string, duration time.Duration) {
	p.calls.WithLabelValues(provider, result).Inc()
	p.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordOutputLength implements MetricsRecorder.
func (p *PrometheusMetrics) RecordOutputLength(provider string, runes int) {
	p.outputLength.WithLabelValues(provider).Observe(float64(runes))
}

// RecordThrottleWait implements MetricsRecorder.
func (p *PrometheusMetrics) RecordThrottleWait(provider string, wait time.Duration) {
	p.throttleWait.WithLabelValues(provider).Observe(wait.Seconds())
}
