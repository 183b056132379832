// Package app wires configuration, storage and services together for the
// server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/config"
	"github.com/xelth-com/asbuiltgo/internal/database"
	"github.com/xelth-com/asbuiltgo/internal/handlers"
	"github.com/xelth-com/asbuiltgo/internal/lock"
	"github.com/xelth-com/asbuiltgo/internal/services/dashboard"
	"github.com/xelth-com/asbuiltgo/internal/services/delivery"
	"github.com/xelth-com/asbuiltgo/internal/services/ifc"
	"github.com/xelth-com/asbuiltgo/internal/services/ingestion"
	"github.com/xelth-com/asbuiltgo/internal/services/report"
	"github.com/xelth-com/asbuiltgo/internal/store"
)

// App holds the open resources of a running process
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *database.DB
	Services handlers.Services

	redis *redis.Client
}

// Open connects the database, migrates the schema and builds the services
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("🚀 Synchronizing database schema...")
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("✅ Schema synchronized successfully")

	a := &App{Config: cfg, Log: log, DB: db}

	locker, err := a.locker(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	st := store.New(db, log.Named("store"))
	dash := dashboard.NewService(st, log.Named("dashboard"))
	a.Services = handlers.Services{
		Store:     st,
		Dashboard: dash,
		Ingestion: ingestion.NewService(st, locker, log.Named("ingestion")),
		IFC:       ifc.NewService(st, cfg.Storage.UploadDir, log.Named("ifc")),
		Report:    report.NewService(dash, st, cfg.Report, log.Named("report")),
		Delivery:  delivery.NewService(st, log.Named("delivery")),
	}
	return a, nil
}

// locker picks the Redis lock when REDIS_ADDR is set, else an in-process one
func (a *App) locker(ctx context.Context) (lock.Locker, error) {
	if a.Config.Redis.Addr == "" {
		a.Log.Info("🔒 Ingestion lock: in process")
		return lock.NewMemory(), nil
	}

	a.redis = redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.redis.Ping(pingCtx).Err(); err != nil {
		a.redis.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", a.Config.Redis.Addr, err)
	}

	a.Log.Info("🔒 Ingestion lock: redis", zap.String("addr", a.Config.Redis.Addr))
	return lock.NewRedis(a.redis, lock.DefaultKey, lock.DefaultTTL), nil
}

// Close releases redis and the database (stopping embedded Postgres)
func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn("redis close error", zap.Error(err))
		}
	}
	return a.DB.Close()
}
