package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// previewRequestsTotal counts preview gate checks by result.
	previewRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nashr_preview_auth_total",
			Help: "Preview basic-auth checks by result",
		},
		[]string{"result"}, // result: success | failure | public
	)
)

// RecordPreviewAuth records a preview gate decision.
func RecordPreviewAuth(result string) {
	previewRequestsTotal.WithLabelValues(result).Inc()
}
