package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ketig/hit-counter/internal/config"
	"github.com/ketig/hit-counter/internal/handlers"
	"github.com/ketig/hit-counter/internal/hits"
	"github.com/ketig/hit-counter/internal/middleware"
	"github.com/ketig/hit-counter/internal/store"
)

const Version = "v0.1.0"

var (
	configPath  = flag.String("config", "", "Path to YAML config file (optional)")
	portFlag    = flag.String("port", "", "Server port (overrides config)")
	storeFlag   = flag.String("store", "", "Store driver: sqlite, redis or memory (overrides config)")
	dbFlag      = flag.String("db", "", "SQLite database path (overrides config)")
	showVersion = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("hit-counter %s\n", Version)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting hit-counter",
		zap.String("version", Version),
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.Strings("allowed_names", cfg.Counter.AllowedNames),
		zap.Int("min_width", cfg.Counter.MinWidth),
		zap.Duration("dedup_window", cfg.Counter.DedupWindow.Std()))

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	service := hits.NewService(st, cfg.NameSet(), cfg.Counter.DedupWindow.Std(), logger)

	mux := http.NewServeMux()
	mux.Handle("/", handlers.NewCounter(service, cfg.Counter.DefaultName, cfg.Counter.MinWidth, logger))
	mux.Handle("/health", handlers.NewHealth(st, cfg.Counter.DefaultName))

	// Middleware order: logging -> tracing -> security -> recovery -> mux
	handler := middleware.RequestLogger(logger)(
		middleware.RequestTracing(
			middleware.SecurityHeaders(
				middleware.Recovery(logger)(mux),
			),
		),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// applyFlags lets CLI flags override config file and environment values
func applyFlags(cfg *config.Config) {
	if *portFlag != "" {
		cfg.Server.Port = *portFlag
	}
	if *storeFlag != "" {
		cfg.Store.Driver = *storeFlag
	}
	if *dbFlag != "" {
		cfg.Store.Path = config.ExpandPath(*dbFlag)
	}
}

// newLogger builds the process logger for the configured environment
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
