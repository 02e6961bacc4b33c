package middleware

import (
	"net/http"
	"strings"

	"nashr/pkg/config"
	"nashr/pkg/security/csp"
)

// CSPConfig selects a Content-Security-Policy per path prefix.
type CSPConfig struct {
	// Enabled controls whether CSP headers are applied. Default: true
	Enabled bool

	// ReportOnly sends Content-Security-Policy-Report-Only instead of enforcing.
	ReportOnly bool

	// DefaultPolicy applies when no prefix in PathPolicies matches.
	DefaultPolicy *csp.CSPBuilder

	// PathPolicies maps path prefixes to policies. The longest match wins.
	PathPolicies map[string]*csp.CSPBuilder
}

// LoadCSPConfig reads CSP_ENABLED and CSP_REPORT_ONLY and installs the
// frontend, Swagger UI and API policies.
func LoadCSPConfig() CSPConfig {
	return CSPConfig{
		Enabled:       config.GetEnvBool("CSP_ENABLED", true),
		ReportOnly:    config.GetEnvBool("CSP_REPORT_ONLY", false),
		DefaultPolicy: csp.FrontendPolicy(),
		PathPolicies: map[string]*csp.CSPBuilder{
			"/swagger/": csp.SwaggerUIPolicy(),
			"/api/":     csp.StrictPolicy(),
		},
	}
}

type pathPolicy struct {
	prefix string
	value  string
}

// CSP sets the policy header selected by request path. Policies are rendered
// once when the middleware is built.
func CSP(cfg CSPConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	header := csp.HeaderName(cfg.ReportOnly)
	var fallback string
	if cfg.DefaultPolicy != nil {
		fallback = cfg.DefaultPolicy.Build()
	}
	policies := make([]pathPolicy, 0, len(cfg.PathPolicies))
	for prefix, p := range cfg.PathPolicies {
		if p != nil {
			policies = append(policies, pathPolicy{prefix: prefix, value: p.Build()})
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := fallback
			longest := -1
			for _, p := range policies {
				if strings.HasPrefix(r.URL.Path, p.prefix) && len(p.prefix) > longest {
					longest = len(p.prefix)
					value = p.value
				}
			}
			if value != "" {
				w.Header().Set(header, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
