package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyKey(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*60*60)
	// 01:30 in Riyadh is still the previous UTC day
	local := time.Date(2026, 10, 17, 1, 30, 0, 0, riyadh)

	assert.Equal(t, "usage:203.0.113.7:2026-10-16", DailyKey("203.0.113.7", local))
	assert.Equal(t, "usage:2001:db8::1:2026-10-16", DailyKey("2001:db8::1", local))
}

func TestDayOf(t *testing.T) {
	tests := []struct {
		key    string
		want   time.Time
		wantOK bool
	}{
		{key: "usage:1.2.3.4:2026-10-16", want: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), wantOK: true},
		{key: "usage:2001:db8::1:2026-01-02", want: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), wantOK: true},
		{key: "usage:1.2.3.4:yesterday"},
		{key: "other:1.2.3.4:2026-10-16"},
		{key: "usage:"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := DayOf(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestNextReset(t *testing.T) {
	now := time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), NextReset(now))
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), StartOfDay(now))
}

func TestDecision(t *testing.T) {
	now := time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC)

	d := newDecision("k", true, 3, 1, now)
	assert.Equal(t, 2, d.Remaining)
	assert.Equal(t, int64(3600), d.RetryAfterSeconds(now))
	assert.Contains(t, d.String(), "Remaining: 2/3")

	over := newDecision("k", false, 3, 5, now)
	assert.Equal(t, 0, over.Remaining)
	assert.Contains(t, over.String(), "Allowed: false")
	assert.Equal(t, int64(0), over.RetryAfterSeconds(now.Add(2*time.Hour)))
}
