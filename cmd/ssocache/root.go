package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/ssocache"
	"github.com/dmitrymomot/ssocache/internal/config"
	"github.com/dmitrymomot/ssocache/internal/server"
	"github.com/dmitrymomot/ssocache/pkg/db"
	"github.com/dmitrymomot/ssocache/pkg/health"
	"github.com/dmitrymomot/ssocache/pkg/logger"
	"github.com/dmitrymomot/ssocache/pkg/redis"
)

// entry is the value type the binary handles. It never decodes values.
type entry = json.RawMessage

// environment is what every subcommand starts from.
type environment struct {
	log *slog.Logger
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "ssocache",
		Short:        "Persistent TTL cache for single-sign-on protocol state",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	load := func() (*environment, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		log, err := logger.New(cfg.Log, server.RequestIDExtractor(), ssocache.TickIDFromContext)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		return &environment{cfg: cfg, log: log}, nil
	}

	root.AddCommand(
		newMigrateCmd(load),
		newPurgeCmd(load),
		newCheckCmd(load),
		newServeCmd(load),
		newConfigCmd(&configPath),
	)
	return root
}

type loader func() (*environment, error)

// backend is an opened cache store plus what it needs to be released.
type backend struct {
	store   ssocache.Cache[entry]
	purger  ssocache.Purger
	pool    *pgxpool.Pool // postgres only
	checks  health.Checks
	release []func(context.Context) error
}

func (b *backend) close(ctx context.Context) error {
	var first error
	for _, fn := range b.release {
		if err := fn(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openBackend connects to the configured storage and builds the store.
// Pools are released after the store is closed.
func openBackend(ctx context.Context, env *environment, extra ...ssocache.Option) (*backend, error) {
	opts, err := env.cfg.Cache.StoreOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, ssocache.WithLogger(env.log))
	opts = append(opts, extra...)

	switch env.cfg.Cache.Backend {
	case config.BackendMemory:
		store, err := ssocache.NewMemory[entry](opts...)
		if err != nil {
			return nil, err
		}
		return &backend{
			store:   store,
			purger:  store,
			checks:  health.Checks{},
			release: []func(context.Context) error{closeHook(store)},
		}, nil

	case config.BackendRedis:
		client, err := redis.Open(ctx, env.cfg.Redis)
		if err != nil {
			return nil, err
		}
		store, err := ssocache.NewRedis[entry](client, nil, opts...)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &backend{
			store:   store,
			purger:  store,
			checks:  health.Checks{"redis": redis.Healthcheck(client)},
			release: []func(context.Context) error{closeHook(store), redis.Shutdown(client)},
		}, nil

	default:
		pool, err := db.Connect(ctx, env.cfg.Database)
		if err != nil {
			return nil, err
		}
		store, err := ssocache.New[entry](pool, nil, opts...)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &backend{
			store:   store,
			purger:  store,
			pool:    pool,
			checks:  health.Checks{"postgres": db.Healthcheck(pool)},
			release: []func(context.Context) error{closeHook(store), db.Shutdown(pool)},
		}, nil
	}
}

func closeHook(c interface{ Close() error }) func(context.Context) error {
	return func(context.Context) error {
		return c.Close()
	}
}
