// Package usagestore opens the usage counter backend selected by configuration
// and runs its maintenance jobs.
package usagestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"nashr/internal/infra/db"
	"nashr/internal/resilience/circuitbreaker"
	"nashr/pkg/config"
	"nashr/pkg/quota"
)

// Pinger checks that a backend is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Backend is an opened usage store with its lifecycle hooks.
type Backend struct {
	Name  string
	Store quota.AtomicStore

	// Purger is nil when the backend expires counters on its own (redis).
	Purger quota.Purger

	// Pinger is nil for the in-memory store.
	Pinger Pinger

	closers []func() error
}

// Open connects the backend named by cfg.Store. The Postgres backend runs its
// migration before returning.
func Open(ctx context.Context, cfg *config.UsageConfig, metrics quota.Metrics) (*Backend, error) {
	if metrics == nil {
		metrics = quota.NoOpMetrics{}
	}

	switch cfg.Store {
	case config.UsageStoreRedis:
		client, err := quota.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		store := quota.NewRedisStore(client, quota.RedisStoreConfig{})
		return &Backend{
			Name:    config.UsageStoreRedis,
			Store:   store,
			Pinger:  pingFunc(store.Ping),
			closers: []func() error{client.Close},
		}, nil

	case config.UsageStorePostgres:
		database, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.MigrateUp(ctx, database); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("migrate usage table: %w", err)
		}
		store := quota.NewPostgresStore(circuitbreaker.NewDB(database, circuitbreaker.UsageDBConfig()))
		return &Backend{
			Name:    config.UsageStorePostgres,
			Store:   store,
			Purger:  store,
			Pinger:  database,
			closers: []func() error{database.Close},
		}, nil

	default:
		store := quota.NewMemoryStore(quota.MemoryStoreConfig{MaxKeys: cfg.MaxKeys, Metrics: metrics})
		return &Backend{
			Name:   config.UsageStoreMemory,
			Store:  store,
			Purger: store,
		}, nil
	}
}

// Close releases backend connections.
func (b *Backend) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// PurgeNow removes counters of days before today (UTC).
func (b *Backend) PurgeNow(ctx context.Context, now time.Time) (int, error) {
	if b.Purger == nil {
		return 0, nil
	}
	return b.Purger.Purge(ctx, quota.StartOfDay(now))
}

// SchedulePurge starts a cron job purging past days on the cron schedule. It returns nil
// when the backend has nothing to purge. Stop the returned scheduler on shutdown.
func (b *Backend) SchedulePurge(schedule string, logger *slog.Logger) (*cron.Cron, error) {
	if b.Purger == nil {
		return nil, nil
	}

	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		removed, err := b.PurgeNow(ctx, time.Now())
		if err != nil {
			logger.Error("usage purge failed",
				slog.String("store", b.Name),
				slog.Any("error", err))
			return
		}
		logger.Info("usage purge completed",
			slog.String("store", b.Name),
			slog.Int("removed", removed))
	})
	if err != nil {
		return nil, fmt.Errorf("schedule usage purge %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
