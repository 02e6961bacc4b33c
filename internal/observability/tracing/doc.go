// Package tracing provides OpenTelemetry tracing for the HTTP front and the
// generation pipeline.
//
// Setup installs the SDK tracer provider and the W3C propagators at startup:
//
//	shutdown := tracing.Setup(cfg.SampleRatio)
//	defer shutdown(context.Background())
//
// Middleware opens one server span per request and echoes the trace ID in the
// X-Trace-Id response header. Use cases create child spans via GetTracer.
package tracing
