package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/ssocache"
)

func newPurgeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete entries older than the TTL once and print how many were removed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := openBackend(ctx, env, ssocache.WithoutReaper())
			if err != nil {
				return err
			}
			defer b.close(context.WithoutCancel(ctx))

			n, err := b.purger.Purge(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d stale entries\n", n)
			return nil
		},
	}
}
