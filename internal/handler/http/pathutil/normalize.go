// Package pathutil maps request paths onto a small, fixed set of metric labels.
package pathutil

import (
	"net/http"
	"path"
	"strings"
)

// knownRoutes are reported under their own path.
var knownRoutes = map[string]struct{}{
	"/":             {},
	"/app":          {},
	"/health":       {},
	"/ready":        {},
	"/metrics":      {},
	"/api/run":      {},
	"/api/generate": {},
}

// NormalizePath returns a bounded label for path: a known route, "/swagger/*",
// "/static" for files with an extension, and "other" for anything else. Unknown paths
// fall back to the landing page, so their raw value must never become a label.
//
//	NormalizePath("/api/run?x=1")       // "/api/run"
//	NormalizePath("/app/")              // "/app"
//	NormalizePath("/css/site.css")      // "/static"
//	NormalizePath("/swagger/index.html") // "/swagger/*"
//	NormalizePath("/wp-admin")          // "other"
func NormalizePath(p string) string {
	if idx := strings.IndexByte(p, '?'); idx != -1 {
		p = p[:idx]
	}
	if len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}

	if _, ok := knownRoutes[p]; ok {
		return p
	}
	if strings.HasPrefix(p, "/swagger") {
		return "/swagger/*"
	}
	if path.Ext(p) != "" {
		return "/static"
	}
	return "other"
}

// RouteLabel prefers the ServeMux pattern that matched r and falls back to NormalizePath.
func RouteLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return NormalizePath(r.URL.Path)
}
