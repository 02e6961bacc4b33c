// Package observability groups the service's logging, metrics and tracing.
//
// Subpackages:
//   - logging: slog setup and request-scoped loggers
//   - metrics: Prometheus counters and histograms for generation
//   - tracing: OpenTelemetry provider setup and HTTP span middleware
package observability
