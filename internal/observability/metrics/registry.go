// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics track post generation
var (
	// GenerationsTotal counts generation requests by platform, mode and status
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nashr_generations_total",
			Help: "Total number of post generation requests",
		},
		[]string{"platform", "mode", "status"},
	)

	// GenerationDuration measures end-to-end generation time including all model calls
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nashr_generation_duration_seconds",
			Help:    "Time taken to generate posts for one request",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"mode"},
	)

	// ShapingTotal counts which extraction step produced each post
	ShapingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nashr_shaping_total",
			Help: "Total number of shaped posts by extraction source",
		},
		[]string{"platform", "source"}, // source: json, tag, heading, raw
	)

	// TruncationsTotal counts posts clamped to their platform ceiling
	TruncationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nashr_truncations_total",
			Help: "Total number of posts truncated to the platform character limit",
		},
		[]string{"platform"},
	)

	// EnrichmentTotal counts optional context lookups (source article, trends)
	EnrichmentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nashr_enrichment_total",
			Help: "Total number of context enrichment lookups",
		},
		[]string{"kind", "result"},
	)
)
