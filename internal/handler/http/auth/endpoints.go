package auth

import "strings"

// PublicEndpoints are reachable without preview credentials so that orchestrators
// and Prometheus can probe the service.
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/metrics",
}

// IsPublicEndpoint reports whether path is exactly a public endpoint, optionally
// with a trailing slash. "/health/detail" and "/healthcheck" are not public.
//
//	IsPublicEndpoint("/health")    // true
//	IsPublicEndpoint("/health/")   // true
//	IsPublicEndpoint("/healthz")   // false
//	IsPublicEndpoint("/api/run")   // false
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}
		if path == endpoint || path == endpoint+"/" {
			return true
		}
	}
	return false
}
