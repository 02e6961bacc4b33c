package completion

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"nashr/internal/domain/entity"
)

type countingProvider struct {
	err error
}

func (c countingProvider) Name() string  { return "metrics-probe" }
func (c countingProvider) Model() string { return "probe" }
func (c countingProvider) Complete(context.Context, entity.PromptPayload) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return "twelve chars", nil
}

func TestNewPrometheusMetrics_Singleton(t *testing.T) {
	assert.Same(t, NewPrometheusMetrics(), NewPrometheusMetrics())
}

func TestPrometheusMetrics_RecordsByResult(t *testing.T) {
	m := NewPrometheusMetrics()
	success := m.calls.WithLabelValues("metrics-probe", "success")
	upstream := m.calls.WithLabelValues("metrics-probe", "upstream")
	successBefore := testutil.ToFloat64(success)
	upstreamBefore := testutil.ToFloat64(upstream)

	ok := NewGuard(countingProvider{}, GuardConfig{Timeout: time.Second, Metrics: m})
	_, _ = ok.Complete(context.Background(), entity.PromptPayload{User: "u"})

	failing := NewGuard(countingProvider{err: entity.NewUpstreamError("metrics-probe", 400, "bad", nil)},
		GuardConfig{Timeout: time.Second, Metrics: m})
	_, _ = failing.Complete(context.Background(), entity.PromptPayload{User: "u"})

	assert.Equal(t, successBefore+1, testutil.ToFloat64(success))
	assert.Equal(t, upstreamBefore+1, testutil.ToFloat64(upstream))
}

func TestCountsAsSuccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: true},
		{name: "canceled", err: entity.NewTransportError("p", context.Canceled), want: true},
		{name: "deadline", err: entity.NewTransportError("p", context.DeadlineExceeded), want: false},
		{name: "configuration", err: entity.NewConfigurationError("p", "missing KEY"), want: true},
		{name: "upstream 400", err: entity.NewUpstreamError("p", 400, "bad", nil), want: true},
		{name: "upstream 429", err: entity.NewUpstreamError("p", 429, "slow down", nil), want: false},
		{name: "upstream 502", err: entity.NewUpstreamError("p", 502, "bad gateway", nil), want: false},
		{name: "unclassified", err: assert.AnError, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countsAsSuccess(tt.err))
		})
	}
}
