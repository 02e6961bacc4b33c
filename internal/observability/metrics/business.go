package metrics

import (
	"time"
)

// RecordGeneration records the outcome of one generation request.
// Mode is "standard" for plain posts or the strategic mode name.
func RecordGeneration(platform, mode string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	GenerationsTotal.WithLabelValues(platform, mode, status).Inc()
	GenerationDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordShaping records which extraction step produced a post and whether it was truncated.
func RecordShaping(platform, source string, truncated bool) {
	ShapingTotal.WithLabelValues(platform, source).Inc()
	if truncated {
		TruncationsTotal.WithLabelValues(platform).Inc()
	}
}

// RecordEnrichment records an optional context lookup.
// Kind is "source" or "trends"; result is "success" or "failure".
func RecordEnrichment(kind string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	EnrichmentTotal.WithLabelValues(kind, result).Inc()
}
