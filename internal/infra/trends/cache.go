package trends

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Source lists trending subjects.
type Source interface {
	Trends(ctx context.Context) ([]string, error)
}

const cacheKey = "trends"

// CachedSource memoizes successful lookups for a TTL. Concurrent misses
// share a single upstream lookup. Failures are not cached.
type CachedSource struct {
	next  Source
	cache *expirable.LRU[string, []string]
	group singleflight.Group
}

// NewCachedSource wraps next with a cache of the given TTL.
func NewCachedSource(next Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		next:  next,
		cache: expirable.NewLRU[string, []string](1, nil, ttl),
	}
}

// Trends implements Source.
func (c *CachedSource) Trends(ctx context.Context) ([]string, error) {
	if v, ok := c.cache.Get(cacheKey); ok {
		return clone(v), nil
	}

	v, err, _ := c.group.Do(cacheKey, func() (interface{}, error) {
		trends, err := c.next.Trends(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(cacheKey, trends)
		return trends, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]string)), nil
}

// Invalidate drops the cached list.
func (c *CachedSource) Invalidate() {
	c.cache.Remove(cacheKey)
}

func clone(in []string) []string {
	return append([]string(nil), in...)
}
