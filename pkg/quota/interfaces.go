// Package quota provides the daily usage gate.
//
// Counters are keyed by identity and UTC day and live in a pluggable Store
// (memory, Redis or Postgres). All stores are safe for concurrent use.
package quota

import (
	"context"
	"errors"
	"time"
)

// ErrLimitExceeded is returned by Gate.Check when the identity has used its daily allowance.
var ErrLimitExceeded = errors.New("daily usage limit reached")

// Store defines the interface for reading and incrementing usage counters.
type Store interface {
	// Increment adds one to key and returns the new count.
	Increment(ctx context.Context, key string) (int, error)

	// Get returns the current count for key, 0 if the key is unknown.
	Get(ctx context.Context, key string) (int, error)
}

// AtomicStore extends Store with an atomic check-and-increment.
//
// The check and the increment happen in one step so concurrent requests
// cannot both pass a ceiling that only one of them fits under.
type AtomicStore interface {
	Store

	// CheckAndIncrement increments key only if its count is below limit.
	//
	// Returns:
	//   - allowed: true if the count was below limit and has been incremented
	//   - count: the count after the call (unchanged when denied)
	//   - err: error if the backend failed
	CheckAndIncrement(ctx context.Context, key string, limit int) (allowed bool, count int, err error)
}

// Purger is implemented by stores that keep counters of past days until told otherwise.
type Purger interface {
	// Purge removes counters for days before the given day and returns how many were removed.
	Purge(ctx context.Context, before time.Time) (int, error)
}

// Clock provides an abstraction for time operations to enable testing.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock implementation that uses the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
