package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/ssocache"
	"github.com/dmitrymomot/ssocache/internal/config"
	"github.com/dmitrymomot/ssocache/internal/server"
	"github.com/dmitrymomot/ssocache/pkg/health"
	"github.com/dmitrymomot/ssocache/pkg/job"
	"github.com/dmitrymomot/ssocache/pkg/logger"
)

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Expire cache entries and serve /health/live and /health/ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), env)
		},
	}
}

func serve(ctx context.Context, env *environment) error {
	b, err := openBackend(ctx, env)
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.Address(env.cfg.HTTP.Addr),
		server.Logger(env.log),
		server.ShutdownTimeout(env.cfg.HTTP.ShutdownTimeout),
		server.WithContext(ctx),
	}

	if env.cfg.Cache.Backend == config.BackendPostgres && env.cfg.Cache.Reaper == config.ReaperRiver {
		manager, err := job.NewManager(b.pool,
			job.WithScheduledTask(ssocache.NewPurgeTask(b.purger, env.log)),
			job.WithLogger(env.log),
		)
		if err != nil {
			return errors.Join(err, b.close(ctx))
		}
		b.checks["jobs"] = health.CheckFunc(job.Healthcheck(manager))
		opts = append(opts,
			server.StartupHook(manager.StartFunc()),
			server.ShutdownHook(manager.Shutdown()),
		)
	}

	// Stop the store before its pool goes away, then flush Sentry last.
	for _, hook := range b.release {
		opts = append(opts, server.ShutdownHook(hook))
	}
	opts = append(opts, server.ShutdownHook(logger.Flush))

	env.log.InfoContext(ctx, "cache ready",
		slog.String("backend", env.cfg.Cache.Backend),
		slog.String("reaper", env.cfg.Cache.Reaper),
		slog.Duration("ttl", b.purger.TTL()),
	)

	r := chi.NewRouter()
	r.Use(server.RequestID, server.Recover(env.log))
	r.Mount("/health", health.Routes(b.checks,
		health.WithLogger(env.log),
	))

	return server.Run(r, opts...)
}
