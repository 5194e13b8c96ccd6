package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dafoerum/internal/cache"
	"dafoerum/internal/config"
	"dafoerum/internal/database"
	"dafoerum/internal/database/migration"
	"dafoerum/internal/http/middleware"
	"dafoerum/internal/repository"
	mongorepo "dafoerum/internal/repository/mongo"
	"dafoerum/internal/repository/postgres"
	"dafoerum/internal/service"
	"dafoerum/internal/storage"
)

// openStore connects the configured store and brings its schema or
// indexes up to date.
func openStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (repository.Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		db, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		closeFn := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.Client().Disconnect(ctx)
		}
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		logger.Info("store_ready", slog.String("driver", cfg.StoreDriver), slog.String("database", cfg.Mongo.Database))
		return mongorepo.NewForumMongo(db), closeFn, nil

	default:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("store_ready", slog.String("driver", cfg.StoreDriver), slog.String("db_host", cfg.Database.Host))
		return postgres.NewForumPostgres(db), db.Close, nil
	}
}

// cacheBackend is what the server needs from Redis.
type cacheBackend interface {
	service.PostCache
	middleware.WriteLimiter
	Close() error
}

// openCache connects Redis when configured. Without it, or when it cannot be
// reached, caching and rate limiting are switched off.
func openCache(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) cacheBackend {
	if cfg.URL == "" {
		logger.Info("cache_configured", slog.Bool("cache_enabled", false))
		return cache.Noop{}
	}
	c, err := cache.New(ctx, cfg.URL)
	if err != nil {
		logger.Warn("cache_unavailable", slog.String("error", err.Error()))
		return cache.Noop{}
	}
	logger.Info("cache_configured", slog.Bool("cache_enabled", true))
	return c
}

// postCache is the cache the forum service reads through. The no-op
// stand-in is left out so lookups are not counted as misses.
func postCache(c cacheBackend) service.PostCache {
	if _, ok := c.(cache.Noop); ok {
		return nil
	}
	return c
}

// openStorage connects the attachment store when an endpoint is configured.
func openStorage(ctx context.Context, cfg config.MinIOConfig, logger *slog.Logger) (storage.Storage, error) {
	if cfg.Endpoint == "" {
		logger.Info("attachments_configured", slog.Bool("attachments_enabled", false))
		return storage.Disabled{}, nil
	}
	s, err := storage.NewMinIO(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	logger.Info("attachments_configured", slog.Bool("attachments_enabled", true), slog.String("bucket", cfg.Bucket))
	return s, nil
}
