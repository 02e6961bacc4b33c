package config

import (
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// Usage store backends accepted in USAGE_STORE.
const (
	UsageStoreMemory   = "memory"
	UsageStoreRedis    = "redis"
	UsageStorePostgres = "postgres"
)

// UsageConfig configures the daily usage gate.
type UsageConfig struct {
	// DailyLimit is the per-identity ceiling per UTC day. 0 disables the gate.
	DailyLimit int

	// Store selects the counter backend: memory, redis or postgres.
	Store string

	// MaxKeys bounds the memory store.
	MaxKeys int

	// PurgeCron schedules removal of past-day counters (memory and postgres).
	PurgeCron string

	RedisURL    string
	DatabaseURL string

	// TrustProxy enables X-Forwarded-For / X-Real-IP when the peer is a trusted proxy.
	TrustProxy     bool
	TrustedProxies []string
}

// Enabled reports whether the gate enforces a ceiling.
func (c *UsageConfig) Enabled() bool {
	return c.DailyLimit > 0
}

// LoadUsageConfig loads usage gate configuration from environment variables.
//
// Environment variables:
//   - USAGE_DAILY_LIMIT: daily ceiling per client (default: 0, gate off)
//   - USAGE_STORE: memory, redis or postgres (default: memory)
//   - USAGE_MAX_KEYS: memory store bound (default: 10000)
//   - USAGE_PURGE_CRON: purge schedule (default: @daily)
//   - REDIS_URL: required for the redis store
//   - DATABASE_URL: required for the postgres store
//   - RATE_LIMIT_TRUST_PROXY: trust forwarding headers (default: false)
//   - RATE_LIMIT_TRUSTED_PROXIES: comma-separated CIDRs of trusted proxies
//
// Out-of-range numbers fall back to defaults with a warning. A store whose
// connection string is missing is an error.
func LoadUsageConfig() (*UsageConfig, error) {
	config := &UsageConfig{
		DailyLimit:     GetEnvInt("USAGE_DAILY_LIMIT", 0),
		Store:          strings.ToLower(GetEnvString("USAGE_STORE", UsageStoreMemory)),
		MaxKeys:        GetEnvInt("USAGE_MAX_KEYS", 10000),
		PurgeCron:      GetEnvString("USAGE_PURGE_CRON", "@daily"),
		RedisURL:       GetEnvString("REDIS_URL", ""),
		DatabaseURL:    GetEnvString("DATABASE_URL", ""),
		TrustProxy:     GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
		TrustedProxies: GetEnvStringList("RATE_LIMIT_TRUSTED_PROXIES", nil),
	}

	if config.DailyLimit < 0 {
		slog.Warn("invalid USAGE_DAILY_LIMIT, disabling the usage gate",
			slog.Int("value", config.DailyLimit))
		config.DailyLimit = 0
	}
	if config.MaxKeys <= 0 {
		slog.Warn("invalid USAGE_MAX_KEYS, using default",
			slog.Int("value", config.MaxKeys),
			slog.Int("default", 10000))
		config.MaxKeys = 10000
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid usage configuration: %w", err)
	}
	return config, nil
}

// Validate checks backend selection, schedule and proxy list.
func (c *UsageConfig) Validate() error {
	switch c.Store {
	case UsageStoreMemory:
	case UsageStoreRedis:
		if c.Enabled() && c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when USAGE_STORE=redis")
		}
	case UsageStorePostgres:
		if c.Enabled() && c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when USAGE_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown USAGE_STORE %q (want memory, redis or postgres)", c.Store)
	}

	if _, err := cron.ParseStandard(c.PurgeCron); err != nil {
		return fmt.Errorf("USAGE_PURGE_CRON: %w", err)
	}

	if err := ValidateTrustedProxies(c.TrustedProxies); err != nil {
		return fmt.Errorf("RATE_LIMIT_TRUSTED_PROXIES: %w", err)
	}
	return nil
}

// ValidateTrustedProxies validates a list of CIDR ranges for trusted proxies.
// A bare IP address is accepted as a single-host range.
//
// Example:
//
//	cidrs := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
//	if err := ValidateTrustedProxies(cidrs); err != nil {
//	    return fmt.Errorf("invalid trusted proxies: %w", err)
//	}
func ValidateTrustedProxies(cidrs []string) error {
	for _, cidr := range cidrs {
		if cidr == "" {
			return fmt.Errorf("CIDR cannot be empty")
		}
		if net.ParseIP(cidr) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("invalid CIDR %q: %w", cidr, err)
		}
	}
	return nil
}
