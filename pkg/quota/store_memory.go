package quota

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore is a bounded in-memory Store.
//
// When MaxKeys counters are held, adding a new key evicts the least recently
// used one. Counters of past days stay until Purge removes them. State is lost
// on restart.
type MemoryStore struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, int]
	metrics Metrics

	// purging is set while Purge removes keys so those removals are not counted as evictions.
	purging bool
}

// MemoryStoreConfig holds configuration for MemoryStore.
type MemoryStoreConfig struct {
	// MaxKeys is the maximum number of counters kept in memory.
	// Default: 10000
	MaxKeys int

	// Metrics receives eviction and key count updates.
	// Default: NoOpMetrics
	Metrics Metrics
}

// DefaultMemoryStoreConfig returns the default configuration.
func DefaultMemoryStoreConfig() MemoryStoreConfig {
	return MemoryStoreConfig{MaxKeys: 10000, Metrics: NoOpMetrics{}}
}

// NewMemoryStore creates a new in-memory store with the given configuration.
func NewMemoryStore(config MemoryStoreConfig) *MemoryStore {
	if config.MaxKeys <= 0 {
		config.MaxKeys = 10000
	}
	if config.Metrics == nil {
		config.Metrics = NoOpMetrics{}
	}

	s := &MemoryStore{metrics: config.Metrics}
	// only fails for a non-positive size
	s.cache, _ = lru.NewWithEvict(config.MaxKeys, func(string, int) {
		if !s.purging {
			s.metrics.RecordEviction("memory", 1)
		}
	})
	return s
}

// Increment implements Store.
func (s *MemoryStore) Increment(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, _ := s.cache.Get(key)
	count++
	s.cache.Add(key, count)
	return count, nil
}

// Get implements Store. It does not refresh the key's recency.
func (s *MemoryStore) Get(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, _ := s.cache.Peek(key)
	return count, nil
}

// CheckAndIncrement implements AtomicStore under a single lock acquisition.
func (s *MemoryStore) CheckAndIncrement(ctx context.Context, key string, limit int) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, _ := s.cache.Get(key)
	if count >= limit {
		return false, count, nil
	}
	count++
	s.cache.Add(key, count)
	return true, count, nil
}

// Purge implements Purger. Keys that are not usage keys are removed as well.
func (s *MemoryStore) Purge(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := StartOfDay(before)
	s.purging = true
	defer func() { s.purging = false }()

	removed := 0
	for _, key := range s.cache.Keys() {
		day, ok := DayOf(key)
		if ok && !day.Before(cutoff) {
			continue
		}
		s.cache.Remove(key)
		removed++
	}

	s.metrics.SetActiveKeys("memory", s.cache.Len())
	return removed, nil
}

// KeyCount returns the number of counters currently held.
func (s *MemoryStore) KeyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
