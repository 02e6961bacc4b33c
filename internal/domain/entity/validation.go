package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxSourceURLLength bounds the source_url request field.
const MaxSourceURLLength = 2048

// ValidateSourceURL checks that rawURL is an absolute http(s) URL with a host
// and no embedded credentials. Whether the host may be private is decided by
// the fetcher at dial time, not here.
func ValidateSourceURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "source_url", Message: "URL is required"}
	}
	if len(rawURL) > MaxSourceURLLength {
		return &ValidationError{
			Field:   "source_url",
			Message: fmt.Sprintf("URL must not exceed %d characters", MaxSourceURLLength),
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "source_url", Message: "URL is malformed"}
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return &ValidationError{Field: "source_url", Message: "URL must use http or https scheme"}
	}
	if u.Hostname() == "" {
		return &ValidationError{Field: "source_url", Message: "URL must have a valid host"}
	}
	if u.User != nil {
		return &ValidationError{Field: "source_url", Message: "URL must not contain credentials"}
	}
	return nil
}
