package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"nashr/pkg/config"
)

// OriginValidator decides whether a cross-origin request may read the response.
type OriginValidator interface {
	IsAllowed(origin string) bool
}

// WhitelistValidator allows exact origin matches, compared case-insensitively and
// without a trailing slash.
type WhitelistValidator struct {
	allowedOrigins []string
}

// NewWhitelistValidator normalizes origins and drops empty entries.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	normalized := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin = normalizeOrigin(origin); origin != "" {
			normalized = append(normalized, origin)
		}
	}
	return &WhitelistValidator{allowedOrigins: normalized}
}

// IsAllowed implements OriginValidator.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	for _, allowed := range v.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// AllowedOrigins returns a copy of the normalized whitelist.
func (v *WhitelistValidator) AllowedOrigins() []string {
	return append([]string(nil), v.allowedOrigins...)
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

// CORSConfig is the cross-origin policy of the API.
type CORSConfig struct {
	// Validator is nil when every origin is accepted. In that mode the response carries
	// "Access-Control-Allow-Origin: *" and never allows credentials.
	Validator OriginValidator

	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is the preflight cache duration in seconds.
	MaxAge int

	Logger *slog.Logger
}

// LoadCORSConfig reads FRONTEND_ORIGIN, a comma-separated origin whitelist.
// Unset means any origin. Every entry must be an http(s) origin with no path.
func LoadCORSConfig() (*CORSConfig, error) {
	cfg := &CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:         config.GetEnvInt("CORS_MAX_AGE", 86400),
		Logger:         slog.Default(),
	}

	origins := config.GetEnvStringList("FRONTEND_ORIGIN", nil)
	if len(origins) == 0 {
		return cfg, nil
	}
	for _, origin := range origins {
		if err := validateOrigin(origin); err != nil {
			return nil, fmt.Errorf("FRONTEND_ORIGIN: %w", err)
		}
	}
	cfg.Validator = NewWhitelistValidator(origins)
	return cfg, nil
}

func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin URL '%s': %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must use http or https scheme: %s", origin)
	}
	if u.Host == "" {
		return fmt.Errorf("origin must include a host: %s", origin)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("origin must not include path, query or fragment: %s", origin)
	}
	return nil
}

// CORS applies the policy. Requests without an Origin header pass through untouched.
// A disallowed origin gets no CORS headers, so the browser blocks the response.
// Preflight requests from allowed origins are answered with 204 and never reach next.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.Validator == nil {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				if !cfg.Validator.IsAllowed(origin) {
					logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method))
					next.ServeHTTP(w, r)
					return
				}
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
