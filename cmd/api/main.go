package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/app"
	"github.com/xelth-com/asbuiltgo/internal/buildinfo"
	"github.com/xelth-com/asbuiltgo/internal/config"
	"github.com/xelth-com/asbuiltgo/internal/handlers"
	"github.com/xelth-com/asbuiltgo/internal/logger"
	"github.com/xelth-com/asbuiltgo/internal/utils"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 2. Database, schema and services
	a, err := app.Open(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to start", zap.Error(err))
	}

	// 3. HTTP router
	router := handlers.NewRouter(cfg, a.Services, log.Named("http"))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("🚀 Server starting",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.NodeEnv),
			zap.String("version", buildinfo.Version),
			zap.Strings("urls", utils.ListenURLs(cfg.Port)))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	sig := <-shutdown
	log.Warn("⚠️ Shutting down gracefully...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Info("🛑 Closing database connection...")
	if err := a.Close(); err != nil {
		log.Error("Database close error", zap.Error(err))
	}

	log.Info("✅ Shutdown complete")
}
