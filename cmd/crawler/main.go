package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tbeier/position-history/internal/config"
	"github.com/tbeier/position-history/internal/poller"
	"github.com/tbeier/position-history/internal/store"
	"github.com/tbeier/position-history/internal/upstream"
	"github.com/tbeier/position-history/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/phs.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded", "err", err)
	}

	logger.Info("starting crawler",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"upstream_url", cfg.Upstream.URL,
		"source", cfg.Upstream.Source,
		"store_backend", cfg.Store.Backend,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Open the position store
	st, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	logger.Info("store ready", "backend", cfg.Store.Backend)

	// Create the feed client
	feed := upstream.NewClient(
		cfg.Upstream.URL,
		cfg.Upstream.Source,
		upstream.WithTimeout(cfg.Upstream.Timeout.Std()),
		upstream.WithLogger(logger),
	)

	// Start the ingestion poller
	p := poller.New(
		poller.Config{CycleTimeout: cfg.Crawler.CycleTimeout.Std()},
		feed,
		st,
		logger,
	)
	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}
	defer p.Stop()

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Crawler.HealthPort),
		Handler: createHealthHandler(st, p),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Crawler.HealthPort)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("crawler running",
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Crawler.HealthPort),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("crawler stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(st store.Store, p *poller.Poller) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status string         `json:"status"`
			Poller poller.Stats   `json:"poller"`
			Store  map[string]any `json:"store"`
		}{
			Status: "healthy",
			Poller: p.Stats(),
			Store:  make(map[string]any),
		}

		// A cheap single-second read doubles as a connectivity probe.
		now := time.Now().Unix()
		if _, err := st.RangeQuery(ctx, now, now); err != nil {
			health.Status = "unhealthy"
			health.Store["status"] = "disconnected"
			health.Store["error"] = err.Error()
		} else {
			health.Store["status"] = "connected"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
