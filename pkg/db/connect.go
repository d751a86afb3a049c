package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect establishes a PostgreSQL connection pool, retrying transient failures.
// Zero-valued fields of cfg fall back to DefaultConfig.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	cfg = withDefaults(cfg)

	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MinConns
	connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	// Attempt n waits n*RetryInterval before the next one.
	attempts := max(cfg.RetryAttempts, 1)
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err == nil {
			// Ping catches authentication and permission problems up front.
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		if i == attempts-1 {
			return nil, errors.Join(ErrFailedToOpenDBConnection, err)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, ErrFailedToOpenDBConnection
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.MigrationsTable == "" {
		cfg.MigrationsTable = def.MigrationsTable
	}
	if cfg.HealthCheckPeriod <= 0 {
		cfg.HealthCheckPeriod = def.HealthCheckPeriod
	}
	if cfg.MaxConnIdleTime <= 0 {
		cfg.MaxConnIdleTime = def.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime <= 0 {
		cfg.MaxConnLifetime = def.MaxConnLifetime
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = def.MaxOpenConns
	}
	if cfg.MinConns < 0 || cfg.MinConns > cfg.MaxOpenConns {
		cfg.MinConns = min(def.MinConns, cfg.MaxOpenConns)
	}
	return cfg
}
