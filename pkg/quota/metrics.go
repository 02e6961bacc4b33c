package quota

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics defines the interface for recording usage gate metrics.
type Metrics interface {
	// RecordDecision records one gate outcome: "allowed", "denied" or "error".
	RecordDecision(store, result string)

	// RecordCheckDuration records how long the store took to answer.
	RecordCheckDuration(store string, duration time.Duration)

	// SetActiveKeys records the number of counters held by the store.
	SetActiveKeys(store string, count int)

	// RecordEviction records counters dropped to stay under the key bound.
	RecordEviction(store string, count int)

	// RecordCircuitState records the state of the fail-open breaker.
	RecordCircuitState(store, state string)
}

// PrometheusMetrics implements Metrics using Prometheus.
type PrometheusMetrics struct {
	registry prometheus.Registerer

	// decisionsTotal labels: store (memory, redis, postgres), result (allowed, denied, error)
	decisionsTotal *prometheus.CounterVec

	// checkDuration buckets target sub-5ms memory checks and tolerate network stores.
	checkDuration *prometheus.HistogramVec

	activeKeys     *prometheus.GaugeVec
	evictionsTotal *prometheus.CounterVec

	// circuitState: 0 closed, 1 open, 2 half-open
	circuitState *prometheus.GaugeVec
}

// NewPrometheusMetrics creates the usage metrics and registers them with reg.
// A nil reg uses a fresh registry, which keeps tests isolated.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &PrometheusMetrics{
		registry: reg,
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nashr_usage_decisions_total",
				Help: "Usage gate decisions by store and result",
			},
			[]string{"store", "result"},
		),
		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nashr_usage_check_duration_seconds",
				Help:    "Duration of usage store checks",
				Buckets: []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"store"},
		),
		activeKeys: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nashr_usage_active_keys",
				Help: "Current number of usage counters held by the store",
			},
			[]string{"store"},
		),
		evictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nashr_usage_evictions_total",
				Help: "Usage counters evicted to respect the key bound",
			},
			[]string{"store"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nashr_usage_circuit_state",
				Help: "Usage store circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"store"},
		),
	}

	reg.MustRegister(m.decisionsTotal, m.checkDuration, m.activeKeys, m.evictionsTotal, m.circuitState)
	return m
}

// RecordDecision implements Metrics.
func (m *PrometheusMetrics) RecordDecision(store, result string) {
	m.decisionsTotal.WithLabelValues(store, result).Inc()
}

// RecordCheckDuration implements Metrics.
func (m *PrometheusMetrics) RecordCheckDuration(store string, duration time.Duration) {
	m.checkDuration.WithLabelValues(store).Observe(duration.Seconds())
}

// SetActiveKeys implements Metrics.
func (m *PrometheusMetrics) SetActiveKeys(store string, count int) {
	m.activeKeys.WithLabelValues(store).Set(float64(count))
}

// RecordEviction implements Metrics.
func (m *PrometheusMetrics) RecordEviction(store string, count int) {
	m.evictionsTotal.WithLabelValues(store).Add(float64(count))
}

// RecordCircuitState implements Metrics.
func (m *PrometheusMetrics) RecordCircuitState(store, state string) {
	var value float64
	switch state {
	case "open":
		value = 1
	case "half-open":
		value = 2
	}
	m.circuitState.WithLabelValues(store).Set(value)
}

// NoOpMetrics implements Metrics with no-op methods.
type NoOpMetrics struct{}

// RecordDecision is a no-op implementation.
func (NoOpMetrics) RecordDecision(string, string) {}

// RecordCheckDuration is a no-op implementation.
func (NoOpMetrics) RecordCheckDuration(string, time.Duration) {}

// SetActiveKeys is a no-op implementation.
func (NoOpMetrics) SetActiveKeys(string, int) {}

// RecordEviction is a no-op implementation.
func (NoOpMetrics) RecordEviction(string, int) {}

// RecordCircuitState is a no-op implementation.
func (NoOpMetrics) RecordCircuitState(string, string) {}
