// Package requestid tags every request with an ID that is echoed to the caller
// and carried by the request-scoped logger.
package requestid

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Header carries the ID in both directions.
const Header = "X-Request-ID"

// MaxLength bounds IDs accepted from clients.
const MaxLength = 128

type ctxKey struct{}

func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Valid reports whether a client ID can be reused as is: at most MaxLength
// characters from [A-Za-z0-9._:-], which keeps it safe in logs and headers.
func Valid(id string) bool {
	return id != "" && len(id) <= MaxLength && strings.IndexFunc(id, func(c rune) bool {
		return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || strings.ContainsRune("-_.:", c))
	}) < 0
}

// Middleware reuses a valid incoming X-Request-ID and otherwise mints a UUID v4,
// rewriting the request header so downstream code sees the same value.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !Valid(id) {
			id = uuid.NewString()
			r.Header.Set(Header, id)
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
