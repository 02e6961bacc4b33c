package quota

import (
	"strings"
	"time"
)

const (
	keyPrefix  = "usage:"
	dateLayout = "2006-01-02"
)

// DailyKey returns the counter key for identity on the UTC day containing t,
// e.g. "usage:203.0.113.7:2026-10-16".
func DailyKey(identity string, t time.Time) string {
	return keyPrefix + identity + ":" + t.UTC().Format(dateLayout)
}

// DayOf returns the UTC day encoded in key and false if key is not a usage key.
func DayOf(key string) (time.Time, bool) {
	if !strings.HasPrefix(key, keyPrefix) {
		return time.Time{}, false
	}
	i := strings.LastIndexByte(key, ':')
	if i < len(keyPrefix) {
		return time.Time{}, false
	}
	day, err := time.Parse(dateLayout, key[i+1:])
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextReset returns the next UTC midnight after t, when every counter starts over.
func NextReset(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}
