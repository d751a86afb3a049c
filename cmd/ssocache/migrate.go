package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/ssocache"
	"github.com/dmitrymomot/ssocache/internal/config"
	"github.com/dmitrymomot/ssocache/pkg/db"
)

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the cache table (and River tables when reaper is river)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load()
			if err != nil {
				return err
			}
			if env.cfg.Cache.Backend != config.BackendPostgres {
				fmt.Fprintf(cmd.OutOrStdout(), "%s backend needs no migrations\n", env.cfg.Cache.Backend)
				return nil
			}

			ctx := cmd.Context()
			pool, err := db.Connect(ctx, env.cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool, ssocache.Migrations(), env.cfg.Database.MigrationsTable, env.log); err != nil {
				return err
			}
			if env.cfg.Cache.Reaper == config.ReaperRiver {
				if err := db.MigrateRiver(ctx, pool, env.log); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
