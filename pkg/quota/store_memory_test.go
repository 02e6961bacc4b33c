package quota

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	NoOpMetrics
	evictions atomic.Int64
	mu        sync.Mutex
	decisions map[string]int
	states    []string
}

func (m *countingMetrics) RecordEviction(_ string, n int) { m.evictions.Add(int64(n)) }

func (m *countingMetrics) RecordDecision(_ string, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.decisions == nil {
		m.decisions = map[string]int{}
	}
	m.decisions[result]++
}

func (m *countingMetrics) RecordCircuitState(_ string, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = append(m.states, state)
}

func TestNewMemoryStore_Defaults(t *testing.T) {
	s := NewMemoryStore(MemoryStoreConfig{})
	require.NotNil(t, s)
	assert.Equal(t, 0, s.KeyCount())
}

func TestMemoryStore_IncrementAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultMemoryStoreConfig())

	n, err := s.Get(ctx, "usage:a:2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for want := 1; want <= 3; want++ {
		n, err = s.Increment(ctx, "usage:a:2026-10-16")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err = s.Get(ctx, "usage:a:2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemoryStore_CheckAndIncrement(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultMemoryStoreConfig())
	key := "usage:a:2026-10-16"

	for i := 1; i <= 2; i++ {
		allowed, count, err := s.CheckAndIncrement(ctx, key, 2)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, i, count)
	}

	allowed, count, err := s.CheckAndIncrement(ctx, key, 2)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 2, count)

	n, _ := s.Get(ctx, key)
	assert.Equal(t, 2, n, "denied check must not increment")
}

func TestMemoryStore_CheckAndIncrement_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultMemoryStoreConfig())
	const limit = 25

	var wg sync.WaitGroup
	var allowed atomic.Int64
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := s.CheckAndIncrement(ctx, "usage:c:2026-10-16", limit)
			if err == nil && ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), allowed.Load())
	n, _ := s.Get(ctx, "usage:c:2026-10-16")
	assert.Equal(t, limit, n)
}

func TestMemoryStore_MaxKeys(t *testing.T) {
	ctx := context.Background()
	m := &countingMetrics{}
	s := NewMemoryStore(MemoryStoreConfig{MaxKeys: 3, Metrics: m})

	for i := 0; i < 10; i++ {
		_, err := s.Increment(ctx, fmt.Sprintf("usage:ip-%d:2026-10-16", i))
		require.NoError(t, err)
		assert.LessOrEqual(t, s.KeyCount(), 3)
	}

	assert.Equal(t, 3, s.KeyCount())
	assert.Equal(t, int64(7), m.evictions.Load())

	// the most recent keys survive
	n, _ := s.Get(ctx, "usage:ip-9:2026-10-16")
	assert.Equal(t, 1, n)
	n, _ = s.Get(ctx, "usage:ip-0:2026-10-16")
	assert.Equal(t, 0, n)
}

func TestMemoryStore_Purge(t *testing.T) {
	ctx := context.Background()
	m := &countingMetrics{}
	s := NewMemoryStore(MemoryStoreConfig{MaxKeys: 10, Metrics: m})

	for _, key := range []string{
		"usage:a:2026-10-14",
		"usage:b:2026-10-15",
		"usage:a:2026-10-16",
		"garbage",
	} {
		_, _ = s.Increment(ctx, key)
	}

	removed, err := s.Purge(ctx, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 1, s.KeyCount())
	assert.Zero(t, m.evictions.Load(), "purged keys are not evictions")

	n, _ := s.Get(ctx, "usage:a:2026-10-16")
	assert.Equal(t, 1, n)
}
