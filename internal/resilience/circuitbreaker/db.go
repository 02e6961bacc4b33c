package circuitbreaker

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// UsageDBConfig is the preset for the usage counter database: five straight failures
// open it for 30 seconds. sql.ErrNoRows is an answer, so it never counts.
func UsageDBConfig() Config {
	return Config{
		Name:             "usage-db",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1,
		MinRequests:      5,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, sql.ErrNoRows)
		},
	}
}

// DB runs statements against a *sql.DB through a breaker, so a dead database is
// skipped without waiting on connection timeouts.
type DB struct {
	*CircuitBreaker
	db *sql.DB
}

// NewDB guards db with cfg.
func NewDB(db *sql.DB, cfg Config) *DB {
	return &DB{CircuitBreaker: New(cfg), db: db}
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return Run(d.CircuitBreaker, func() (sql.Result, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
}

// QueryRowScan scans a single row inside the breaker, so scan errors are seen by it.
func (d *DB) QueryRowScan(ctx context.Context, query string, args []any, dest ...any) error {
	_, err := d.Execute(func() (interface{}, error) {
		return nil, d.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
	return err
}

// Unwrap returns the guarded connection pool.
func (d *DB) Unwrap() *sql.DB { return d.db }
