package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// checkAndIncrScript increments KEYS[1] only while it is below ARGV[1] and
// sets its expiry when the key is first created.
// Returns {allowed (0|1), count}.
var checkAndIncrScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
  return {0, current}
end
current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return {1, current}
`)

// RedisStore keeps counters in Redis. Keys expire a little after their day ends,
// so no purge job is needed.
type RedisStore struct {
	client redis.UniversalClient
	clock  Clock
	grace  time.Duration
}

// RedisStoreConfig holds configuration for RedisStore.
type RedisStoreConfig struct {
	// Clock is used to compute key expiry. Default: SystemClock
	Clock Clock

	// Grace is added to the end of the day before a key expires. Default: 1h
	Grace time.Duration
}

// NewRedisStore creates a store on top of an existing client.
func NewRedisStore(client redis.UniversalClient, config RedisStoreConfig) *RedisStore {
	if config.Clock == nil {
		config.Clock = &SystemClock{}
	}
	if config.Grace <= 0 {
		config.Grace = time.Hour
	}
	return &RedisStore{client: client, clock: config.Clock, grace: config.Grace}
}

// NewRedisClient parses a redis:// URL and returns a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (s *RedisStore) ttl() time.Duration {
	now := s.clock.Now()
	return NextReset(now).Sub(now) + s.grace
}

// Increment implements Store.
func (s *RedisStore) Increment(ctx context.Context, key string) (int, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpire(ctx, key, s.ttl())
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis increment %s: %w", key, err)
	}
	return int(incr.Val()), nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (int, error) {
	n, err := s.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return n, nil
}

// CheckAndIncrement implements AtomicStore with a Lua script.
func (s *RedisStore) CheckAndIncrement(ctx context.Context, key string, limit int) (bool, int, error) {
	res, err := checkAndIncrScript.Run(ctx, s.client, []string{key}, limit, s.ttl().Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("redis check-and-increment %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("redis check-and-increment %s: unexpected reply %v", key, res)
	}
	return res[0] == 1, int(res[1]), nil
}

// Ping reports whether Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
