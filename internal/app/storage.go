package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/srabonmojumder/velora-Ecommerce/internal/config"
	"github.com/srabonmojumder/velora-Ecommerce/internal/repository"
	"github.com/srabonmojumder/velora-Ecommerce/internal/repository/memory"
	pgrepo "github.com/srabonmojumder/velora-Ecommerce/internal/repository/postgres"
	redisrepo "github.com/srabonmojumder/velora-Ecommerce/internal/repository/redis"
	sqliterepo "github.com/srabonmojumder/velora-Ecommerce/internal/repository/sqlite"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/database"
)

// storage is the blob repository selected by STORAGE_DRIVER together with
// the function releasing its connections.
type storage struct {
	repo  repository.BlobRepository
	close func() error
}

// openStorage connects the configured backend. Networked and file backends
// are wrapped in a circuit breaker; the in-memory one never fails.
func openStorage(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger) (*storage, error) {
	database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)

	var (
		repo    repository.BlobRepository
		closeFn = func() error { return nil }
	)

	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, state is lost on restart")
		return &storage{repo: memory.NewBlobRepository(), close: closeFn}, nil

	case config.DriverRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.Redis(), logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		repo = redisrepo.NewBlobRepository(rdb, cfg.RedisPrefix, cfg.RedisTTL)
		closeFn = rdb.Close

	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := database.RegisterSQLMetrics(reg, db, "sqlite"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("register sqlite metrics: %w", err)
		}
		sr, err := sqliterepo.NewBlobRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("opened SQLite storage", slog.String("path", cfg.SQLitePath))
		repo = sr
		closeFn = db.Close

	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, pgrepo.Migrations(), logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		if err := database.RegisterPoolMetrics(reg, pool, "postgres"); err != nil {
			pool.Close()
			return nil, fmt.Errorf("register pool metrics: %w", err)
		}
		repo = pgrepo.NewBlobRepository(pool)
		closeFn = func() error {
			pool.Close()
			return nil
		}

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	breaker := repository.NewBreakerRepository(repo, repository.DefaultBreakerConfig(cfg.StorageDriver), logger)
	return &storage{repo: breaker, close: closeFn}, nil
}
