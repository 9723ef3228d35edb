package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tbeier/position-history/internal/config"
	"github.com/tbeier/position-history/internal/rest"
	"github.com/tbeier/position-history/internal/rpc"
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

	logger.Info("starting webserver",
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

	// The webserver reaches the query engine only through the provider's
	// gRPC API, never the store directly.
	client, err := rpc.Dial(cfg.Webserver.ProviderAddr)
	if err != nil {
		logger.Error("failed to dial provider", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	handler := rest.NewHandler(client, cfg.Webserver.RPCTimeout.Std(), logger)

	// Live position feed for map clients
	feed := rest.NewFeedHub(logger)
	go feed.Run(ctx, client, cfg.Webserver.FeedInterval.Std(), cfg.Webserver.RPCTimeout.Std())

	e := rest.NewServer(handler, feed, cfg.Webserver.CORSOrigins)

	go func() {
		logger.Info("webserver ready",
			"addr", cfg.Webserver.ListenAddr,
			"provider", cfg.Webserver.ProviderAddr,
		)
		if err := e.Start(cfg.Webserver.ListenAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("webserver error", "error", err)
		}
	}()

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}

	logger.Info("webserver stopped")
}
