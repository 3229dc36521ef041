/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the local worklog server: the REST API plus the
  live stats aggregator. Handles configuration, dependency injection, and
  graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and load configuration
  2. Initialize logger
  3. Initialize SQLite store
  4. Start the stats aggregator and its periodic refresh
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (optional; env vars apply either way)
  -port    Override http.port
  -db      Override storage.path. Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (http.shutdown_timeout)
  3. Stop the aggregator and scheduler
  4. Close database connection

EXAMPLES:
  ./server -db="./data/worklog.db"
  WORKLOG_STATS_LOCALE=en ./server -port=3000

SEE ALSO:
  - config/config.go: Configuration fields and env vars
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/warp/worklog-engine/api"
	"github.com/warp/worklog-engine/config"
	"github.com/warp/worklog-engine/logger"
	"github.com/warp/worklog-engine/stats"
	"github.com/warp/worklog-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "Path to YAML configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), config.Usage())
	}
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting worklog server",
		zap.String("env", cfg.Env),
		zap.String("config_path", *configPath),
		zap.String("storage", cfg.Storage.Path),
		zap.String("time_zone", loc.String()),
	)

	// Initialize store
	store, err := sqlite.New(cfg.Storage.Path, log.Logger)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	settings := store.SettingsView()

	// Stats aggregator
	labels := stats.LabelsFor(cfg.Stats.Locale)
	agg := stats.NewAggregator(store, settings,
		stats.WithLocation(loc),
		stats.WithLabels(labels),
		stats.WithLogger(log.Logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	aggDone := make(chan error, 1)
	go func() { aggDone <- agg.Run(ctx) }()

	scheduler := api.NewRefreshScheduler(agg, log.Logger)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize handler and router
	handler := api.NewHandler(store, settings, agg, log.Logger)
	handler.Location = loc
	handler.Labels = labels
	handler.Scenarios = cfg.Demo
	if cfg.Demo {
		log.Warn("Demo scenarios enabled; loading one replaces all stored data")
	}
	router := api.NewRouter(handler, cfg.HTTP.AllowedOrigins)

	// Create server
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", "http://"+cfg.HTTP.Addr()+"/api"))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
		stop()
	}

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := <-aggDone; err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Aggregator stopped with error", zap.Error(err))
	}

	log.Info("Server stopped")
}
