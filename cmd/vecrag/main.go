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

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/app"
	"github.com/kailas-cloud/vecrag/internal/config"
	logpkg "github.com/kailas-cloud/vecrag/internal/logger"
	"github.com/kailas-cloud/vecrag/internal/metrics"
	chiTransport "github.com/kailas-cloud/vecrag/internal/transport/chi"
	"github.com/kailas-cloud/vecrag/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vecrag API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("keyspace", cfg.Database.Name+":"+cfg.Database.Collection),
	)

	metrics.Register()

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open document store", zap.Error(err))
	}
	logger.Info("Connected to database")

	a := app.New(&cfg, store, app.NewProvider(cfg.Embedding, logger), logger)
	defer a.Close()

	if err := a.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to prepare vector index", zap.Error(err))
	}

	// Model warm-up is best effort: the first request retries it.
	if cfg.Embedding.WarmOnStart {
		warmCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Embedding.TimeoutSec)*time.Second)
		if err := a.Model.Warm(warmCtx); err != nil {
			logger.Warn("Embedding model warm-up failed", zap.Error(err))
		}
		cancel()
	}

	server := chiTransport.NewServer(a.Ingest, a.Query, a.Health, logger).
		WithLimits(chiTransport.DefaultMaxBodyBytes, a.Ingest.MaxUploadBytes())
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys: cfg.Auth.APIKeys,
		Logger:  logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
