package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/platform/migrations"
)

// ConnectDatabase migrates the schema when AUTO_MIGRATE is set, then opens
// the pool. The cleanup function closes it.
func ConnectDatabase(ctx context.Context, config Config, log logger.Logger) (*pgxpool.Pool, func(), error) {
	if config.AutoMigrate {
		if err := migrations.Run(ctx, config.DatabaseURL, migrations.Up, log); err != nil {
			log.Error(ctx, "failed to migrate database", "error", err)
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.Info(ctx, "connecting to database", "auto_migrated", config.AutoMigrate)

	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		log.Error(ctx, "failed to parse database URL", "error", err)
		return nil, nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = config.DatabaseMaxConns
	poolConfig.MinConns = min(config.DatabaseMinConns, config.DatabaseMaxConns)
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = time.Minute

	log.Debug(ctx, "database pool configuration",
		"max_conns", poolConfig.MaxConns,
		"min_conns", poolConfig.MinConns,
		"max_conn_lifetime", poolConfig.MaxConnLifetime,
		"max_conn_idle_time", poolConfig.MaxConnIdleTime,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error(ctx, "failed to create connection pool", "error", err)
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error(ctx, "failed to ping database", "error", err)
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info(ctx, "database connection established")

	cleanup := func() {
		log.Info(context.Background(), "closing database connection pool")
		pool.Close()
	}
	return pool, cleanup, nil
}
