// Package logging configures log/slog for the service and carries a
// request-scoped logger through contexts.
//
// LOG_FORMAT selects the handler ("json", the default, or "text") and
// LOG_LEVEL the minimum level. The HTTP logging middleware stores a logger
// tagged with request_id and trace_id in the request context; handlers and
// use cases fetch it with FromContext.
package logging
