package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/olympics/internal/adapters/cache"
	"github.com/okian/olympics/internal/adapters/http/api"
	"github.com/okian/olympics/internal/adapters/http/charts"
	"github.com/okian/olympics/internal/adapters/http/site"
	"github.com/okian/olympics/internal/adapters/http/swagger"
	"github.com/okian/olympics/internal/adapters/repository"
	app "github.com/okian/olympics/internal/app"
	"github.com/okian/olympics/internal/config"
	"github.com/okian/olympics/pkg/logger"
	"github.com/okian/olympics/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := newStore(cfg)
	if err != nil {
		loggerInstance.Error(ctx, "failed to open dataset store", logger.Error(err))
		os.Exit(1)
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithStore(store),
		app.WithCacheSize(cfg.CacheSize),
		app.WithCacheTTL(cfg.CacheTTL),
		app.WithWarmup(cfg.Warmup),
		app.WithWarmupParallelism(cfg.WarmupParallelism),
		app.WithTopAthletes(cfg.TopAthletes),
		app.WithTopCountryAthletes(cfg.TopCountryAthletes),
	)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		_ = store.Close()
		os.Exit(1)
	}
	defer svc.Stop()

	// Sample memory, goroutine and GC figures until shutdown.
	if err := metrics.StartRuntimeCollector(ctx); err != nil {
		loggerInstance.Warn(ctx, "runtime metrics disabled", logger.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newStore opens the configured dataset backend. The sqlite backend imports
// the CSV files on its first start.
func newStore(cfg *config.Config) (repository.Store, error) {
	csv := repository.NewCSVStore(cfg.AthletesPath, cfg.RegionsPath)
	switch cfg.Backend {
	case config.BackendCSV:
		return csv, nil
	case config.BackendSQLite:
		store, err := repository.NewSQLiteStore(cfg.SQLitePath, csv)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}

// newHandler wires every route onto one mux behind the request-id middleware.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Register API docs under /api-docs and /openapi.yaml
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	api.NewServer(svc, svc).Register(ctx, mux)

	charts.NewHandler(svc,
		charts.WithSize(cfg.ChartWidth, cfg.ChartHeight),
		charts.WithCache(cache.NewLRU[[]byte](cfg.CacheSize, cfg.CacheTTL)),
	).Register(ctx, mux)

	// The dashboard owns / and /static/.
	site.Register(ctx, mux, svc)

	return api.RequestIDMiddleware(mux, log.Named("http"))
}
