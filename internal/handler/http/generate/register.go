package generate

import "net/http"

// Register mounts the generation endpoints. /api/generate is an alias of /api/run.
// h is normally a Handler, possibly wrapped in middleware.
func Register(mux *http.ServeMux, h http.Handler) {
	mux.Handle("POST /api/run", h)
	mux.Handle("POST /api/generate", h)
}
