package trends

import (
	"time"

	"nashr/pkg/config"
)

// Config controls trend lookups.
type Config struct {
	// FeedURLs are RSS or Atom feeds whose newest item titles count as trends.
	// Empty disables trend lookups.
	FeedURLs []string

	// CacheTTL is how long a successful lookup is reused. Default: 30m
	CacheTTL time.Duration

	// MaxTrends caps the merged list. Default: 8
	MaxTrends int

	// PerFeed caps how many items are read from each feed. Default: 5
	PerFeed int

	// Timeout bounds each feed request. Default: 10s
	Timeout time.Duration
}

// DefaultConfig returns the defaults with no feeds configured.
func DefaultConfig() Config {
	return Config{
		CacheTTL:  30 * time.Minute,
		MaxTrends: 8,
		PerFeed:   5,
		Timeout:   10 * time.Second,
	}
}

// Enabled reports whether any feed is configured.
func (c Config) Enabled() bool {
	return len(c.FeedURLs) > 0
}

// LoadConfig reads TREND_FEED_URLS (comma list), TREND_CACHE_TTL, TREND_MAX,
// TREND_PER_FEED and TREND_FEED_TIMEOUT.
func LoadConfig() Config {
	d := DefaultConfig()
	cfg := Config{
		FeedURLs:  config.GetEnvStringList("TREND_FEED_URLS", nil),
		CacheTTL:  config.GetEnvDuration("TREND_CACHE_TTL", d.CacheTTL),
		MaxTrends: config.GetEnvInt("TREND_MAX", d.MaxTrends),
		PerFeed:   config.GetEnvInt("TREND_PER_FEED", d.PerFeed),
		Timeout:   config.GetEnvDuration("TREND_FEED_TIMEOUT", d.Timeout),
	}
	if cfg.MaxTrends <= 0 {
		cfg.MaxTrends = d.MaxTrends
	}
	if cfg.PerFeed <= 0 {
		cfg.PerFeed = d.PerFeed
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = d.CacheTTL
	}
	return cfg
}
