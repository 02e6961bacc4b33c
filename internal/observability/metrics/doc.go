// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the business metrics of post generation:
//   - generation outcomes and durations
//   - shaping sources and truncations
//   - usage gate decisions
//   - context enrichment lookups
//
// HTTP request metrics live with the HTTP middleware. All metrics are registered
// with the Prometheus default registry and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "nashr/internal/observability/metrics"
//
//	start := time.Now()
//	out, err := svc.Generate(ctx, req)
//	metrics.RecordGeneration(string(req.Platform), "standard", err == nil, time.Since(start))
package metrics
