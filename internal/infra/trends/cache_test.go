package trends

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls  int32
	trends []string
	err    error
	delay  time.Duration
}

func (s *countingSource) Trends(context.Context) ([]string, error) {
	atomic.AddInt32(&s.calls, 1)
	time.Sleep(s.delay)
	if s.err != nil {
		return nil, s.err
	}
	return s.trends, nil
}

func TestCachedSource_Hit(t *testing.T) {
	src := &countingSource{trends: []string{"Founding Day"}}
	c := NewCachedSource(src, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := c.Trends(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Founding Day"}, got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestCachedSource_ReturnsCopies(t *testing.T) {
	c := NewCachedSource(&countingSource{trends: []string{"a", "b"}}, time.Minute)

	first, err := c.Trends(context.Background())
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := c.Trends(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestCachedSource_Expiry(t *testing.T) {
	src := &countingSource{trends: []string{"x"}}
	c := NewCachedSource(src, 20*time.Millisecond)

	_, _ = c.Trends(context.Background())
	time.Sleep(60 * time.Millisecond)
	_, _ = c.Trends(context.Background())

	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("feeds down")}
	c := NewCachedSource(src, time.Minute)

	_, err := c.Trends(context.Background())
	require.Error(t, err)
	_, err = c.Trends(context.Background())
	require.Error(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}

func TestCachedSource_CollapsesConcurrentMisses(t *testing.T) {
	src := &countingSource{trends: []string{"x"}, delay: 50 * time.Millisecond}
	c := NewCachedSource(src, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Trends(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestCachedSource_Invalidate(t *testing.T) {
	src := &countingSource{trends: []string{"x"}}
	c := NewCachedSource(src, time.Minute)

	_, _ = c.Trends(context.Background())
	c.Invalidate()
	_, _ = c.Trends(context.Background())

	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}
