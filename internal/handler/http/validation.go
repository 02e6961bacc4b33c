package http

import (
	"errors"
	"net/http"

	"nashr/internal/handler/http/respond"
)

const (
	// DefaultMaxBodyBytes bounds request bodies (2 MiB).
	DefaultMaxBodyBytes int64 = 2 << 20

	maxAuthHeaderBytes = 8 << 10
	maxPathBytes       = 2 << 10
)

var (
	errAuthHeaderTooLarge = errors.New("authorization header too large")
	errURITooLong         = errors.New("URI too long")
)

// InputValidation rejects oversized Authorization headers (400) and paths (414)
// before any handler runs, and caps the body at maxBodyBytes (DefaultMaxBodyBytes
// when <= 0). Handlers see the cap as a *http.MaxBytesError while decoding.
func InputValidation(maxBodyBytes int64) func(http.Handler) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case len(r.Header.Get("Authorization")) > maxAuthHeaderBytes:
				respond.Error(w, http.StatusBadRequest, errAuthHeaderTooLarge)
			case len(r.URL.Path) > maxPathBytes:
				respond.Error(w, http.StatusRequestURITooLong, errURITooLong)
			default:
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
				next.ServeHTTP(w, r)
			}
		})
	}
}
