// Package http provides the HTTP handlers and middleware for the Nashr service.
// It includes health and readiness endpoints, metrics collection, request
// timeouts, input limits and the logging and recovery middleware.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nashr/internal/handler/http/respond"
	"nashr/internal/infra/completion"
)

// ServiceName is reported by the liveness endpoint.
const ServiceName = "Nashr"

// HealthHandler answers liveness probes. It never touches dependencies.
type HealthHandler struct{}

// ServeHTTP godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /health [get]
func (HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, map[string]any{"ok": true, "service": ServiceName})
}

// ReadyResponse represents the JSON response for the readiness endpoint.
type ReadyResponse struct {
	OK        bool                   `json:"ok"`
	Status    string                 `json:"status"`    // "ready" or "unavailable"
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version,omitempty"`
}

// CheckStatus represents the status of a single readiness check.
type CheckStatus struct {
	Status  string         `json:"status"` // "healthy", "degraded" or "unhealthy"
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ProviderStatus is implemented by *completion.Client.
type ProviderStatus interface {
	Status() completion.Status
	Ready() bool
}

// Pinger is implemented by *sql.DB and the redis client adapter.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadyHandler reports whether generation requests can be attempted.
// A missing provider credential makes the service unavailable. A failing
// usage store only degrades it, because the usage gate fails open.
type ReadyHandler struct {
	Provider ProviderStatus
	// UsageStore is optional; nil for the in-memory store.
	UsageStore Pinger
	StoreName  string
	Version    string
	Logger     *slog.Logger
}

// ServeHTTP godoc
// @Summary      Readiness probe
// @Description  Reports completion provider, model, credential presence and circuit state.
// @Tags         health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	ready := true

	if h.Provider == nil {
		checks["completion"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		ready = false
	} else {
		check := checkProvider(h.Provider)
		checks["completion"] = check
		if check.Status == "unhealthy" {
			ready = false
		}
	}

	if h.UsageStore != nil {
		checks["usage_store"] = h.checkStore(ctx)
	}

	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, ReadyResponse{
		OK:        ready,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func checkProvider(p ProviderStatus) CheckStatus {
	st := p.Status()
	details := map[string]any{
		"provider":           st.Provider,
		"model":              st.Model,
		"credential_present": st.CredentialPresent,
		"circuit_state":      st.CircuitState,
	}

	if !p.Ready() {
		msg := "missing provider credential"
		if st.CredentialEnv != "" {
			msg = "missing " + st.CredentialEnv
		}
		return CheckStatus{Status: "unhealthy", Message: msg, Details: details}
	}

	// Open circuit recovers on its own after the cooldown
	if st.CircuitState == "open" {
		return CheckStatus{Status: "degraded", Message: "circuit breaker open", Details: details}
	}

	return CheckStatus{Status: "healthy", Details: details}
}

func (h *ReadyHandler) checkStore(ctx context.Context) CheckStatus {
	details := map[string]any{"store": h.StoreName}
	if err := h.UsageStore.PingContext(ctx); err != nil {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("usage store ping failed",
			slog.String("store", h.StoreName),
			slog.Any("error", err))
		return CheckStatus{
			Status:  "degraded",
			Message: respond.SanitizeError(err),
			Details: details,
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}
