package fetcher

import (
	"fmt"
	"time"

	"nashr/pkg/config"
)

// ContentFetchConfig controls fetching of user-supplied source articles.
type ContentFetchConfig struct {
	// Enabled allows source_url to be fetched at all. Default: false
	Enabled bool

	// Timeout bounds a single fetch including redirects. Default: 10s
	Timeout time.Duration

	// MaxBodySize caps the HTML read from the page. Default: 2 MiB
	MaxBodySize int64

	// MaxRedirects is the number of redirects followed. Every hop is
	// re-validated. Default: 5
	MaxRedirects int

	// MaxChars truncates the extracted text, counted in runes. Default: 6000
	MaxChars int

	// DenyPrivateIPs rejects hosts resolving to loopback, private or
	// link-local addresses. Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        false,
		Timeout:        10 * time.Second,
		MaxBodySize:    2 << 20,
		MaxRedirects:   5,
		MaxChars:       6000,
		DenyPrivateIPs: true,
		UserAgent:      "NashrBot/1.0",
	}
}

// Validate checks that limits are within sane bounds.
func (c *ContentFetchConfig) Validate() error {
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout %w", err)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(20 << 20)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.MaxChars < 0 {
		return fmt.Errorf("max chars must be non-negative, got %d", c.MaxChars)
	}

	return nil
}

// LoadConfigFromEnv reads SOURCE_FETCH_* variables over the defaults:
// SOURCE_FETCH_ENABLED, SOURCE_FETCH_TIMEOUT, SOURCE_FETCH_MAX_BODY_SIZE,
// SOURCE_FETCH_MAX_REDIRECTS, SOURCE_FETCH_MAX_CHARS and SOURCE_FETCH_DENY_PRIVATE_IPS.
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	d := DefaultConfig()
	cfg := ContentFetchConfig{
		Enabled:        config.GetEnvBool("SOURCE_FETCH_ENABLED", d.Enabled),
		Timeout:        config.GetEnvDuration("SOURCE_FETCH_TIMEOUT", d.Timeout),
		MaxBodySize:    int64(config.GetEnvInt("SOURCE_FETCH_MAX_BODY_SIZE", int(d.MaxBodySize))),
		MaxRedirects:   config.GetEnvInt("SOURCE_FETCH_MAX_REDIRECTS", d.MaxRedirects),
		MaxChars:       config.GetEnvInt("SOURCE_FETCH_MAX_CHARS", d.MaxChars),
		DenyPrivateIPs: config.GetEnvBool("SOURCE_FETCH_DENY_PRIVATE_IPS", d.DenyPrivateIPs),
		UserAgent:      config.GetEnvString("SOURCE_FETCH_USER_AGENT", d.UserAgent),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("source fetch configuration: %w", err)
	}
	return cfg, nil
}
