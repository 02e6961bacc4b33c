package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DB is the subset of *circuitbreaker.DB the Postgres store needs.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowScan(ctx context.Context, query string, args []any, dest ...any) error
}

const (
	upsertIncrement = `
INSERT INTO usage_counters (key, day, count, updated_at)
VALUES ($1, $2, 1, now())
ON CONFLICT (key) DO UPDATE
SET count = usage_counters.count + 1, updated_at = now()
RETURNING count`

	upsertIncrementBelow = `
INSERT INTO usage_counters (key, day, count, updated_at)
VALUES ($1, $2, 1, now())
ON CONFLICT (key) DO UPDATE
SET count = usage_counters.count + 1, updated_at = now()
WHERE usage_counters.count < $3
RETURNING count`

	selectCount = `SELECT count FROM usage_counters WHERE key = $1`

	deleteBefore = `DELETE FROM usage_counters WHERE day < $1`
)

// PostgresStore keeps counters in the usage_counters table.
// Each increment is a single UPSERT, so the ceiling holds across replicas.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store on top of db.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Increment implements Store.
func (s *PostgresStore) Increment(ctx context.Context, key string) (int, error) {
	var count int
	if err := s.db.QueryRowScan(ctx, upsertIncrement, []any{key, dayArg(key)}, &count); err != nil {
		return 0, fmt.Errorf("postgres increment %s: %w", key, err)
	}
	return count, nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, key string) (int, error) {
	var count int
	err := s.db.QueryRowScan(ctx, selectCount, []any{key}, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return count, nil
}

// CheckAndIncrement implements AtomicStore. When the guarded UPSERT updates no
// row the key is at its ceiling; the current count is then read back.
func (s *PostgresStore) CheckAndIncrement(ctx context.Context, key string, limit int) (bool, int, error) {
	if limit <= 0 {
		count, err := s.Get(ctx, key)
		return false, count, err
	}

	var count int
	err := s.db.QueryRowScan(ctx, upsertIncrementBelow, []any{key, dayArg(key), limit}, &count)
	if err == nil {
		return true, count, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, 0, fmt.Errorf("postgres check-and-increment %s: %w", key, err)
	}

	count, err = s.Get(ctx, key)
	return false, count, err
}

// Purge implements Purger.
func (s *PostgresStore) Purge(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, deleteBefore, StartOfDay(before).Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("postgres purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("postgres purge rows affected: %w", err)
	}
	return int(n), nil
}

// dayArg is the DATE column value for key, today when the key carries no day.
func dayArg(key string) string {
	day, ok := DayOf(key)
	if !ok {
		day = time.Now().UTC()
	}
	return day.Format(dateLayout)
}
