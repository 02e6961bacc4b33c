package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"nashr/internal/config"
	hhttp "nashr/internal/handler/http"
	hauth "nashr/internal/handler/http/auth"
	hgenerate "nashr/internal/handler/http/generate"
	"nashr/internal/handler/http/middleware"
	"nashr/internal/handler/http/requestid"
	"nashr/internal/infra/completion"
	"nashr/internal/infra/fetcher"
	"nashr/internal/infra/trends"
	"nashr/internal/infra/usagestore"
	"nashr/internal/observability/logging"
	"nashr/internal/observability/tracing"
	"nashr/internal/usecase/generate"
	pkgconfig "nashr/pkg/config"
	"nashr/pkg/quota"

	_ "nashr/docs" // swagger docs
)

// @title           Nashr API
// @version         1.0
// @description     Generates ready-to-publish social media posts (LinkedIn, X, Instagram) with a language model.

// @contact.name   API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	shutdownTracing := tracing.Setup(pkgconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 1.0))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	version := getVersion()
	components := setupServer(logger, version)
	defer components.Close(logger)

	runServer(logger, components, version)
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler http.Handler
	Addr    string
	Usage   *usagestore.Backend
	Purge   *cron.Cron
}

// Close stops the purge job and releases the usage store.
func (c *ServerComponents) Close(logger *slog.Logger) {
	if c.Purge != nil {
		<-c.Purge.Stop().Done()
	}
	if c.Usage != nil {
		if err := c.Usage.Close(); err != nil {
			logger.Error("failed to close usage store", slog.Any("error", err))
		}
	}
}

// setupServer loads configuration and builds the HTTP handler with all routes and middleware.
// Invalid configuration stops the process.
func setupServer(logger *slog.Logger, version string) *ServerComponents {
	completionCfg, err := config.LoadCompletionConfig()
	if err != nil {
		logger.Error("failed to load completion configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if !completionCfg.HasCredential() {
		// Not fatal: /health stays up and generation answers with a configuration error.
		logger.Warn("completion credential missing",
			slog.String("provider", completionCfg.Provider),
			slog.String("env", completionCfg.CredentialEnv))
	}

	brandCfg, err := config.LoadBrand()
	if err != nil {
		logger.Error("failed to load brand configuration", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := completion.New(completionCfg, createHTTPClient(), completion.NewPrometheusMetrics())
	if err != nil {
		logger.Error("failed to create completion client", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("completion provider configured",
		slog.String("provider", completionCfg.Provider),
		slog.String("model", completionCfg.Model),
		slog.Int("max_attempts", completionCfg.MaxAttempts),
		slog.Float64("rps", completionCfg.RPS))

	svc := &generate.Service{
		Completer: client,
		Brand: generate.Brand{
			Name:      brandCfg.Name(),
			Marker:    brandCfg.Marker(),
			TrendRule: brandCfg.RecommendationRule(),
		},
	}
	setupEnrichment(logger, svc)

	usageCfg, err := pkgconfig.LoadUsageConfig()
	if err != nil {
		logger.Error("failed to load usage configuration", slog.Any("error", err))
		os.Exit(1)
	}
	ipExtractor, err := middleware.NewIPExtractor(usageCfg)
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}

	components := &ServerComponents{Addr: ":" + pkgconfig.GetEnvString("PORT", "3000")}
	var gate *quota.Gate
	if usageCfg.Enabled() {
		components.Usage, components.Purge, gate = setupUsageGate(logger, usageCfg)
	} else {
		logger.Warn("usage gate is DISABLED (USAGE_DAILY_LIMIT=0)")
	}

	handler := hgenerate.Handler{Svc: svc, Gate: gate, IPs: ipExtractor}
	ready := &hhttp.ReadyHandler{Provider: client, Version: version, Logger: logger}
	if components.Usage != nil && components.Usage.Pinger != nil {
		ready.UsageStore = components.Usage.Pinger
		ready.StoreName = components.Usage.Name
	}

	// Every completion attempt has its own timeout; the rest covers backoff and enrichment.
	requestTimeout := completionCfg.Timeout*time.Duration(completionCfg.MaxAttempts) + 30*time.Second

	mux := setupRoutes(handler, ready, requestTimeout)
	components.Handler = applyMiddleware(logger, mux)
	return components
}

// setupEnrichment wires the optional trend feeds and source fetcher into svc.
func setupEnrichment(logger *slog.Logger, svc *generate.Service) {
	trendCfg := trends.LoadConfig()
	if trendCfg.Enabled() {
		svc.Trends = trends.NewCachedSource(trends.NewFeedSource(createHTTPClient(), trendCfg), trendCfg.CacheTTL)
		logger.Info("trend feeds enabled",
			slog.Int("feeds", len(trendCfg.FeedURLs)),
			slog.Duration("cache_ttl", trendCfg.CacheTTL))
	}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load source fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if fetchCfg.Enabled {
		svc.Sources = fetcher.NewReadabilityFetcher(fetchCfg)
		logger.Info("source fetching enabled",
			slog.Duration("timeout", fetchCfg.Timeout),
			slog.Int("max_chars", fetchCfg.MaxChars),
			slog.Bool("deny_private_ips", fetchCfg.DenyPrivateIPs))
	}
}

// setupUsageGate opens the configured usage store and schedules its purge job.
func setupUsageGate(logger *slog.Logger, cfg *pkgconfig.UsageConfig) (*usagestore.Backend, *cron.Cron, *quota.Gate) {
	metrics := quota.NewPrometheusMetrics(prometheus.DefaultRegisterer)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	backend, err := usagestore.Open(ctx, cfg, metrics)
	if err != nil {
		logger.Error("failed to open usage store",
			slog.String("store", cfg.Store),
			slog.Any("error", err))
		os.Exit(1)
	}

	purge, err := backend.SchedulePurge(cfg.PurgeCron, logger)
	if err != nil {
		logger.Error("failed to schedule usage purge", slog.Any("error", err))
		os.Exit(1)
	}

	gate := quota.NewGate(backend.Store, quota.GateConfig{
		Limit:     cfg.DailyLimit,
		StoreName: backend.Name,
		Metrics:   metrics,
	})
	logger.Info("usage gate enabled",
		slog.Int("daily_limit", cfg.DailyLimit),
		slog.String("store", backend.Name),
		slog.Bool("trust_proxy", cfg.TrustProxy))
	return backend, purge, gate
}

// createHTTPClient creates the outbound client for provider and feed calls.
// Per-call deadlines come from the request context.
func createHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// setupRoutes registers all HTTP routes.
func setupRoutes(gen hgenerate.Handler, ready *hhttp.ReadyHandler, requestTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", hhttp.HealthHandler{})
	mux.Handle("GET /ready", ready)
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	hgenerate.Register(mux, hhttp.Timeout(requestTimeout)(gen))

	mux.Handle("/", hhttp.NewStaticHandler(pkgconfig.GetEnvString("FRONTEND_DIR", "./frontend")))

	return tracing.RouteTagger(mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Middleware order: CORS → Request ID → CSP → Tracing → Recovery → Logging → Body Limit → Metrics → Preview auth
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if corsConfig.Validator != nil {
		logger.Info("CORS enabled",
			slog.Any("allowed_origins", corsConfig.Validator.(*middleware.WhitelistValidator).AllowedOrigins()),
			slog.Any("allowed_methods", corsConfig.AllowedMethods))
	} else {
		logger.Warn("FRONTEND_ORIGIN not set, CORS allows any origin")
	}

	cspConfig := middleware.LoadCSPConfig()
	if cspConfig.Enabled {
		logger.Info("CSP enabled", slog.Bool("report_only", cspConfig.ReportOnly))
	} else {
		logger.Warn("CSP is disabled")
	}

	previewConfig := hauth.LoadPreviewConfig()
	if previewConfig.Enabled() {
		logger.Info("preview basic-auth gate enabled")
	}

	// Apply in reverse order (innermost to outermost)
	chain := handler
	chain = hauth.Preview(previewConfig)(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.InputValidation(hhttp.DefaultMaxBodyBytes)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = middleware.CSP(cspConfig)(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(*corsConfig)(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              components.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", components.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("shutting down server...")
	case err := <-serverErr:
		logger.Error("server failed", slog.Any("error", err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}
