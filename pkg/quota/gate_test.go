package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	calls int
}

func (f *failingStore) Increment(context.Context, string) (int, error) { return 0, errors.New("down") }
func (f *failingStore) Get(context.Context, string) (int, error)       { return 0, errors.New("down") }
func (f *failingStore) CheckAndIncrement(context.Context, string, int) (bool, int, error) {
	f.calls++
	return false, 0, errors.New("down")
}

var gateNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func TestGate_Disabled(t *testing.T) {
	store := NewMemoryStore(DefaultMemoryStoreConfig())
	g := NewGate(store, GateConfig{Limit: 0, Clock: fixedClock{now: gateNow}})

	assert.False(t, g.Enabled())
	for i := 0; i < 5; i++ {
		d, err := g.Check(context.Background(), "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	assert.Equal(t, 0, store.KeyCount())
}

func TestGate_Ceiling(t *testing.T) {
	ctx := context.Background()
	m := &countingMetrics{}
	store := NewMemoryStore(DefaultMemoryStoreConfig())
	g := NewGate(store, GateConfig{Limit: 2, Clock: fixedClock{now: gateNow}, Metrics: m})

	d, err := g.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Remaining)
	assert.Equal(t, "usage:1.2.3.4:2026-10-16", d.Key)

	d, err = g.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Remaining)

	d, err = g.Check(ctx, "1.2.3.4")
	assert.True(t, errors.Is(err, ErrLimitExceeded))
	require.NotNil(t, d)
	assert.False(t, d.Allowed)
	assert.Equal(t, 2, d.Limit)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), d.ResetAt)

	n, err := g.Usage(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// another identity is unaffected
	_, err = g.Check(ctx, "5.6.7.8")
	assert.NoError(t, err)

	assert.Equal(t, 3, m.decisions["allowed"])
	assert.Equal(t, 1, m.decisions["denied"])
}

func TestGate_NewDayResets(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DefaultMemoryStoreConfig())

	today := NewGate(store, GateConfig{Limit: 1, Clock: fixedClock{now: gateNow}})
	_, err := today.Check(ctx, "ip")
	require.NoError(t, err)
	_, err = today.Check(ctx, "ip")
	require.ErrorIs(t, err, ErrLimitExceeded)

	tomorrow := NewGate(store, GateConfig{Limit: 1, Clock: fixedClock{now: gateNow.Add(24 * time.Hour)}})
	_, err = tomorrow.Check(ctx, "ip")
	assert.NoError(t, err)
}

func TestGate_FailsOpen(t *testing.T) {
	ctx := context.Background()
	m := &countingMetrics{}
	store := &failingStore{}
	g := NewGate(store, GateConfig{Limit: 1, StoreName: "redis", Clock: fixedClock{now: gateNow}, Metrics: m})

	for i := 0; i < 10; i++ {
		d, err := g.Check(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.True(t, d.Degraded)
	}

	assert.Equal(t, 10, m.decisions["error"])
	assert.Less(t, store.calls, 10, "breaker should stop calling a failing store")
	assert.Contains(t, m.states, "open")
}

func TestGate_PrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)
	g := NewGate(NewMemoryStore(DefaultMemoryStoreConfig()), GateConfig{Limit: 1, Clock: fixedClock{now: gateNow}, Metrics: m})

	_, _ = g.Check(context.Background(), "ip")
	_, _ = g.Check(context.Background(), "ip")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.decisionsTotal.WithLabelValues("memory", "allowed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.decisionsTotal.WithLabelValues("memory", "denied")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.circuitState.WithLabelValues("memory")))

	count, err := testutil.GatherAndCount(reg, "nashr_usage_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
