package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	"github.com/tbeier/position-history/internal/config"
	"github.com/tbeier/position-history/internal/gateway"
	"github.com/tbeier/position-history/internal/rpc"
	"github.com/tbeier/position-history/internal/search"
	"github.com/tbeier/position-history/internal/store"
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

	logger.Info("starting provider",
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

	// Open the position store
	st, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Query engine shared by every protocol surface
	gw := gateway.New(st, search.Config{
		InitialRadius: cfg.Provider.Search.InitialRadius.Std(),
		MaxRadius:     cfg.Provider.Search.MaxRadius.Std(),
	}, logger)

	// gRPC server
	grpcServer := grpc.NewServer(
		grpc.ForceServerCodec(rpc.Codec{}),
		grpc.UnaryInterceptor(rpc.LoggingInterceptor(logger)),
	)
	rpc.Register(grpcServer, rpc.NewServer(gw, logger))

	lis, err := net.Listen("tcp", cfg.Provider.ListenAddr)
	if err != nil {
		logger.Error("listen failed", "addr", cfg.Provider.ListenAddr, "error", err)
		os.Exit(1)
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down...")
		grpcServer.GracefulStop()
	}()

	logger.Info("provider ready",
		"addr", cfg.Provider.ListenAddr,
		"initial_radius", cfg.Provider.Search.InitialRadius,
		"max_radius", cfg.Provider.Search.MaxRadius,
	)
	if err := grpcServer.Serve(lis); err != nil {
		logger.Error("grpc serve error", "error", err)
		os.Exit(1)
	}

	logger.Info("provider stopped")
}
