// Package db opens the Postgres pool behind the usage counter store and owns its schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"nashr/pkg/config"
)

// ErrNoDSN is returned by Open when no connection string is configured.
var ErrNoDSN = errors.New("DATABASE_URL not set")

const pingTimeout = 5 * time.Second

// Pool sizes the connection pool. The usage store runs one short statement per
// generation, so the defaults are small.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// PoolFromEnv reads DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS, DB_CONN_MAX_LIFETIME and
// DB_CONN_MAX_IDLE_TIME. Values that are not positive keep the default.
func PoolFromEnv() Pool {
	return Pool{
		MaxOpen:     positive(config.GetEnvInt("DB_MAX_OPEN_CONNS", 10), 10),
		MaxIdle:     positive(config.GetEnvInt("DB_MAX_IDLE_CONNS", 5), 5),
		MaxLifetime: positive(config.GetEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour), time.Hour),
		MaxIdleTime: positive(config.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute), 30*time.Minute),
	}
}

func positive[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

func (p Pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxLifetime(p.MaxLifetime)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
}

// Open connects to dsn through the pgx driver, sizes the pool from the environment
// and pings it. The pool is closed again when the ping fails.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pool := PoolFromEnv()
	pool.apply(db)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("usage database connected",
		slog.Int("max_open_conns", pool.MaxOpen),
		slog.Int("max_idle_conns", pool.MaxIdle),
		slog.Duration("conn_max_lifetime", pool.MaxLifetime))
	return db, nil
}
