package fetcher

import "errors"

var (
	// ErrDisabled is returned when source fetching is switched off.
	ErrDisabled = errors.New("source fetching disabled")
	// ErrInvalidURL covers unparsable URLs, non-http(s) schemes and failed lookups.
	ErrInvalidURL = errors.New("invalid source URL")
	// ErrPrivateIP is returned when a host resolves to a non-public address.
	ErrPrivateIP = errors.New("source URL resolves to a private address")
	// ErrTooManyRedirects is returned past ContentFetchConfig.MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrTimeout is returned when the per-request timeout elapses.
	ErrTimeout = errors.New("source fetch timed out")
	// ErrBodyTooLarge is returned when the page exceeds MaxBodySize.
	ErrBodyTooLarge = errors.New("source page too large")
	// ErrNoContent is returned when no readable text could be extracted.
	ErrNoContent = errors.New("no readable content found")
)
