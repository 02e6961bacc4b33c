package quota

import (
	"fmt"
	"time"
)

// Decision is the result of a usage check.
type Decision struct {
	// Key is the counter key that was checked.
	Key string

	// Allowed indicates whether the request may proceed.
	Allowed bool

	// Limit is the daily ceiling.
	Limit int

	// Count is the counter value after the check.
	Count int

	// Remaining is Limit minus Count, never negative.
	Remaining int

	// ResetAt is the next UTC midnight.
	ResetAt time.Time

	// Degraded is true when the store could not be consulted and the request
	// was let through without being counted.
	Degraded bool
}

// String returns a human-readable representation of the decision.
func (d *Decision) String() string {
	if d.Allowed {
		return fmt.Sprintf("Decision{Allowed: true, Key: %s, Remaining: %d/%d, Degraded: %t}",
			d.Key, d.Remaining, d.Limit, d.Degraded)
	}
	return fmt.Sprintf("Decision{Allowed: false, Key: %s, Limit: %d, ResetAt: %s}",
		d.Key, d.Limit, d.ResetAt.Format(time.RFC3339))
}

// RetryAfterSeconds returns the seconds until the counter resets, measured from now.
func (d *Decision) RetryAfterSeconds(now time.Time) int64 {
	seconds := int64(d.ResetAt.Sub(now).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}

func newDecision(key string, allowed bool, limit, count int, now time.Time) *Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &Decision{
		Key:       key,
		Allowed:   allowed,
		Limit:     limit,
		Count:     count,
		Remaining: remaining,
		ResetAt:   NextReset(now),
	}
}
