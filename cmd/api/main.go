package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appconfig "github.com/AuroraDai/weihao/internal/config"
	"github.com/AuroraDai/weihao/internal/infra/fetcher"
	"github.com/AuroraDai/weihao/internal/infra/finviz"
	"github.com/AuroraDai/weihao/internal/infra/translator"
	"github.com/AuroraDai/weihao/internal/observability/logging"
	"github.com/AuroraDai/weihao/internal/observability/tracing"
	"github.com/AuroraDai/weihao/internal/resilience/circuitbreaker"
	"github.com/AuroraDai/weihao/internal/summarize"
	"github.com/AuroraDai/weihao/pkg/config"

	newsUC "github.com/AuroraDai/weihao/internal/usecase/news"
	quoteUC "github.com/AuroraDai/weihao/internal/usecase/quote"
	screenerUC "github.com/AuroraDai/weihao/internal/usecase/screener"

	hhttp "github.com/AuroraDai/weihao/internal/handler/http"
	hauth "github.com/AuroraDai/weihao/internal/handler/http/auth"
	hdashboard "github.com/AuroraDai/weihao/internal/handler/http/dashboard"
	hnews "github.com/AuroraDai/weihao/internal/handler/http/news"
	hquote "github.com/AuroraDai/weihao/internal/handler/http/quote"
	hscreener "github.com/AuroraDai/weihao/internal/handler/http/screener"
	"github.com/AuroraDai/weihao/internal/handler/http/middleware"
	"github.com/AuroraDai/weihao/internal/handler/http/requestid"
	authservice "github.com/AuroraDai/weihao/internal/service/auth"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	securityCfg := loadSecurityConfig(logger)
	validateAppPassword(logger, securityCfg)
	validateJWTSecret(logger, securityCfg)

	shutdownTracing := tracing.InitProvider()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	version := getVersion()
	components := setupServer(logger, securityCfg, version)

	runServer(logger, components, version)
}

// loadSecurityConfig loads the auth provider and JWT settings from YAML.
func loadSecurityConfig(logger *slog.Logger) *appconfig.SecurityConfig {
	path := config.GetEnvString("SECURITY_CONFIG", "config/security.yaml")
	cfg, err := appconfig.LoadSecurityConfig(path)
	if err != nil {
		logger.Error("failed to load security configuration",
			slog.String("path", path), slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// validateAppPassword validates the shared dashboard password at startup.
// This prevents the server from starting with an empty or weak password.
func validateAppPassword(logger *slog.Logger, cfg *appconfig.SecurityConfig) {
	err := hauth.ValidateAppPassword(cfg.GetMinPasswordLength(), cfg.GetWeakPasswords())
	if err != nil {
		logger.Error("app password validation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// validateJWTSecret validates the JWT signing secret for security requirements.
func validateJWTSecret(logger *slog.Logger, cfg *appconfig.SecurityConfig) {
	secret := os.Getenv(cfg.GetJWTSecretEnv())
	if secret == "" {
		logger.Error("JWT secret must be set", slog.String("env", cfg.GetJWTSecretEnv()))
		os.Exit(1)
	}
	// セキュリティ: 最小32文字（256ビット）を強制
	if len(secret) < 32 {
		logger.Error("JWT secret must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	// セキュリティ: よくある弱い秘密鍵を拒否
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT secret must not be a common weak value",
				slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
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
	Handler  http.Handler
	Screener *screenerUC.Service

	// ExportConfigured reports whether FINVIZ_EXPORT_URL was set; without
	// it the screener refresher stays off.
	ExportConfigured bool
}

// setupServer constructs the upstream clients, usecases, routes, and
// middleware chain.
func setupServer(logger *slog.Logger, securityCfg *appconfig.SecurityConfig, version string) *ServerComponents {
	// Upstream clients.
	finvizClient := finviz.NewClient(finviz.Config{
		BaseURL:           config.GetEnvString("FINVIZ_BASE_URL", ""),
		Timeout:           config.GetEnvDuration("FINVIZ_TIMEOUT", 15*time.Second),
		RequestsPerSecond: config.GetEnvFloat("FINVIZ_REQUESTS_PER_SECOND", 1.0),
		Burst:             config.GetEnvInt("FINVIZ_BURST", 3),
	})

	exportURL := os.Getenv("FINVIZ_EXPORT_URL")
	exportClient := finviz.NewExportClient(
		exportURL,
		config.GetEnvDuration("FINVIZ_EXPORT_TIMEOUT", 30*time.Second),
	)

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load article fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}
	articleFetcher := fetcher.NewReadabilityFetcher(fetchCfg)

	trans, err := translator.New()
	if err != nil {
		logger.Error("failed to initialize translator", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("translator initialized", slog.String("provider", trans.Name()))

	// Usecases.
	quoteSvc := quoteUC.NewService(finvizClient)
	screenerSvc := screenerUC.NewService(exportClient, logger)
	newsSvc := newsUC.NewService(
		articleFetcher,
		trans,
		summarize.New(),
		config.GetEnvInt("SUMMARY_MAX_SENTENCES", summarize.DefaultMaxSentences),
		config.GetEnvInt("SUMMARY_MAX_WORDS", summarize.DefaultMaxWords),
		logger,
	)

	// Auth service with the shared-password provider.
	authProvider := hauth.NewPasswordProvider(
		securityCfg.GetMinPasswordLength(),
		securityCfg.GetWeakPasswords(),
	)
	authService := authservice.NewService(authProvider, securityCfg.GetPublicEndpoints())

	breakers := []*circuitbreaker.CircuitBreaker{
		finvizClient.Breaker(),
		exportClient.Breaker(),
		articleFetcher.Breaker(),
	}

	mux := setupRoutes(quoteSvc, screenerSvc, newsSvc, authService, securityCfg, breakers, trans.Name(), version)
	handler := applyMiddleware(logger, mux, authService)

	return &ServerComponents{
		Handler:          handler,
		Screener:         screenerSvc,
		ExportConfigured: exportURL != "",
	}
}

// setupRoutes registers all HTTP routes. Which of them require a JWT is
// decided by the auth middleware from the security config's public
// endpoint list, not per route here.
func setupRoutes(
	quoteSvc *quoteUC.Service,
	screenerSvc *screenerUC.Service,
	newsSvc *newsUC.Service,
	authService *authservice.Service,
	securityCfg *appconfig.SecurityConfig,
	breakers []*circuitbreaker.CircuitBreaker,
	translatorName string,
	version string,
) *http.ServeMux {
	// レート制限: 認証エンドポイントは1分間に5リクエストまで
	authRateLimiter := hhttp.NewRateLimiter(5, time.Minute)

	// レート制限: 要約エンドポイントは1分間に20リクエストまで
	summaryRateLimiter := hhttp.NewRateLimiter(20, time.Minute)

	mux := http.NewServeMux()

	mux.Handle("GET /health", &hhttp.HealthHandler{
		Version:        version,
		Screener:       screenerSvc,
		Breakers:       breakers,
		TranslatorName: translatorName,
	})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("POST /auth/token",
		authRateLimiter.Limit(hauth.TokenHandler(authService, securityCfg.GetJWTExpiryHours())))

	hquote.Register(mux, quoteSvc)
	hscreener.Register(mux, screenerSvc)
	hnews.Register(mux, newsSvc, summaryRateLimiter)
	hdashboard.Register(mux)

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): request ID → tracing → CORS → recovery →
// logging → rate limit → body limit → CSP → metrics → timeout → auth.
func applyMiddleware(logger *slog.Logger, handler http.Handler, authService *authservice.Service) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}

	cspConfig := middleware.CSPConfig{
		Enabled:    config.GetEnvBool("CSP_ENABLED", true),
		ReportOnly: config.GetEnvBool("CSP_REPORT_ONLY", false),
	}

	// レート制限: 既定は1分間に60リクエストまで
	rateLimiter := hhttp.NewRateLimiter(
		config.GetEnvInt("RATE_LIMIT_REQUESTS", 60),
		config.GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	)

	// Article fetch plus translation can take tens of seconds, so the
	// request timeout is generous compared to a typical JSON API.
	requestTimeout := config.GetEnvDuration("REQUEST_TIMEOUT", 60*time.Second)

	chain := handler

	// Apply in reverse order (innermost to outermost).
	chain = hauth.Authz(authService)(chain)
	chain = hhttp.Timeout(requestTimeout)(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = middleware.CSP(cspConfig)(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = rateLimiter.Limit(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = middleware.CORS(*corsConfig)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the screener refresher and the HTTP server, then blocks
// until a shutdown signal arrives.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if components.ExportConfigured {
		refreshSpec := config.GetEnvString("SCREENER_REFRESH_SPEC", "@every 10m")
		if err := components.Screener.StartRefresher(ctx, refreshSpec); err != nil {
			logger.Error("failed to start screener refresher",
				slog.String("spec", refreshSpec), slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("screener refresher started", slog.String("spec", refreshSpec))
	} else {
		logger.Warn("FINVIZ_EXPORT_URL is not set; screener refresher disabled")
	}

	addr := config.GetEnvString("LISTEN_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	components.Screener.StopRefresher()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
