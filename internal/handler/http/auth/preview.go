// Package auth implements the optional preview gate: HTTP basic auth in front of
// everything except the public probe endpoints.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"net/http"

	"nashr/internal/handler/http/respond"
	"nashr/pkg/config"
)

var errUnauthorized = errors.New("unauthorized")

// PreviewConfig holds the shared preview credential.
type PreviewConfig struct {
	User     string
	Password string
}

// LoadPreviewConfig reads PREVIEW_USER and PREVIEW_PASS.
func LoadPreviewConfig() PreviewConfig {
	return PreviewConfig{
		User:     config.GetEnvString("PREVIEW_USER", ""),
		Password: config.GetEnvString("PREVIEW_PASS", ""),
	}
}

// Enabled reports whether both halves of the credential are set.
func (c PreviewConfig) Enabled() bool {
	return c.User != "" && c.Password != ""
}

// Preview returns the basic-auth middleware. With the gate disabled it returns next unchanged.
func Preview(cfg PreviewConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled() {
			return next
		}
		wantUser := sha256.Sum256([]byte(cfg.User))
		wantPass := sha256.Sum256([]byte(cfg.Password))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(r.URL.Path) {
				RecordPreviewAuth("public")
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if ok {
				gotUser := sha256.Sum256([]byte(user))
				gotPass := sha256.Sum256([]byte(pass))
				userOK := subtle.ConstantTimeCompare(gotUser[:], wantUser[:]) == 1
				passOK := subtle.ConstantTimeCompare(gotPass[:], wantPass[:]) == 1
				if userOK && passOK {
					RecordPreviewAuth("success")
					next.ServeHTTP(w, r)
					return
				}
			}

			RecordPreviewAuth("failure")
			w.Header().Set("WWW-Authenticate", `Basic realm="Nashr preview", charset="UTF-8"`)
			respond.Error(w, http.StatusUnauthorized, errUnauthorized)
		})
	}
}
