package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestPreview_Disabled(t *testing.T) {
	for _, cfg := range []PreviewConfig{{}, {User: "demo"}, {Password: "pw"}} {
		h := Preview(cfg)(okHandler())

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/run", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestPreview_Gate(t *testing.T) {
	h := Preview(PreviewConfig{User: "demo", Password: "s3cret"})(okHandler())

	tests := []struct {
		name     string
		path     string
		user     string
		pass     string
		withAuth bool
		want     int
	}{
		{name: "health is public", path: "/health", want: http.StatusOK},
		{name: "ready is public", path: "/ready", want: http.StatusOK},
		{name: "metrics is public", path: "/metrics", want: http.StatusOK},
		{name: "landing requires auth", path: "/", want: http.StatusUnauthorized},
		{name: "api requires auth", path: "/api/run", want: http.StatusUnauthorized},
		{name: "wrong password", path: "/api/run", user: "demo", pass: "nope", withAuth: true, want: http.StatusUnauthorized},
		{name: "wrong user", path: "/app", user: "admin", pass: "s3cret", withAuth: true, want: http.StatusUnauthorized},
		{name: "valid credentials", path: "/app", user: "demo", pass: "s3cret", withAuth: true, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.withAuth {
				r.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
				assert.JSONEq(t, `{"ok":false,"error":"unauthorized"}`, w.Body.String())
			}
		})
	}
}

func TestIsPublicEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/health/", true},
		{"/ready", true},
		{"/metrics", true},
		{"/healthz", false},
		{"/health/detail", false},
		{"/swagger/index.html", false},
		{"/api/generate", false},
		{"/", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPublicEndpoint(tt.path), tt.path)
	}
}

func TestLoadPreviewConfig(t *testing.T) {
	t.Setenv("PREVIEW_USER", "demo")
	t.Setenv("PREVIEW_PASS", "pw")

	cfg := LoadPreviewConfig()
	assert.Equal(t, PreviewConfig{User: "demo", Password: "pw"}, cfg)
	assert.True(t, cfg.Enabled())
}
