package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nashr/internal/handler/http/pathutil"
	"nashr/internal/handler/http/responsewriter"
)

// Labels: method, path (route pattern or pathutil label), status.
var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nashr",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	// Generation requests wait on a model for seconds, so the buckets reach 60s.
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nashr",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by method, route and status",
		Buckets:   []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10, 20, 40, 60},
	}, []string{"method", "path", "status"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nashr",
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served",
	})

	httpRequestSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nashr",
		Name:      "http_request_size_bytes",
		Help:      "Request body size by method and route",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nashr",
		Name:      "http_response_size_bytes",
		Help:      "Response body size by method and route",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
	}, []string{"method", "path"})
)

// MetricsMiddleware records request count, latency and sizes. It must sit
// outside the ServeMux so r.Pattern is populated once next returns.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)
		elapsed := time.Since(start).Seconds()

		route := pathutil.RouteLabel(r)
		status := strconv.Itoa(rw.StatusCode())
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(elapsed)
		httpResponseSize.WithLabelValues(r.Method, route).Observe(float64(rw.BytesWritten()))
		if r.ContentLength > 0 {
			httpRequestSize.WithLabelValues(r.Method, route).Observe(float64(r.ContentLength))
		}
	})
}

// MetricsHandler serves the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
