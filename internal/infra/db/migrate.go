package db

import (
	"context"
	"database/sql"
	"fmt"
)

// usageSchema is applied in order by MigrateUp. Every statement is idempotent.
var usageSchema = []string{
	`CREATE TABLE IF NOT EXISTS usage_counters (
    key        TEXT PRIMARY KEY,
    day        DATE NOT NULL,
    count      INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	// purge deletes by day
	`CREATE INDEX IF NOT EXISTS idx_usage_counters_day ON usage_counters(day)`,
}

// MigrateUp creates the usage counter table and its index when missing.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for i, stmt := range usageSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("usage schema step %d: %w", i+1, err)
		}
	}
	return nil
}
