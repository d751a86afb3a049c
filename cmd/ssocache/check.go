package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/ssocache"
	"github.com/dmitrymomot/ssocache/pkg/adapter"
	"github.com/dmitrymomot/ssocache/pkg/health"
)

const checkRacers = 8

func newCheckCmd(load loader) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify connectivity and the insert-once contract against the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			b, err := openBackend(ctx, env, ssocache.WithoutReaper())
			if err != nil {
				return err
			}
			defer b.close(context.WithoutCancel(ctx))

			out := cmd.OutOrStdout()
			resp, err := health.Run(ctx, b.checks, health.WithLogger(env.log))
			for name, c := range resp.Checks {
				fmt.Fprintf(out, "%-10s %s %s\n", name, c.Status, c.Error)
			}
			if err != nil {
				return err
			}

			if err := roundTrip(ctx, b.store, out); err != nil {
				return err
			}
			return raceSave(ctx, b.store, out)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "overall deadline")
	return cmd
}

// roundTrip saves, reads and removes a fresh key.
func roundTrip(ctx context.Context, store ssocache.Cache[entry], out io.Writer) error {
	a, err := adapter.NewAsync(store, adapter.WithContext(ctx))
	if err != nil {
		return err
	}

	key := "check:" + uuid.NewString()
	value := entry(`{"check":true}`)

	item, err := a.SaveAsync(key, value).Await(ctx)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	got, err := a.GetAsync(key).Await(ctx)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	if !got.Found || !jsonEqual(got.Value, value) {
		return fmt.Errorf("get: stored value not returned (found=%t)", got.Found)
	}

	removed, err := a.RemoveAsync(key).Await(ctx)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	if !removed.Found {
		return errors.New("remove: key vanished before removal")
	}

	fmt.Fprintf(out, "round trip ok (created_at %s)\n", item.CreatedAt.Format(time.RFC3339Nano))
	return nil
}

// raceSave saves one key concurrently and expects exactly one winner.
func raceSave(ctx context.Context, store ssocache.Cache[entry], out io.Writer) error {
	key := "check:" + uuid.NewString()
	defer store.Remove(context.WithoutCancel(ctx), key)

	var won, lost atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i := range checkRacers {
		g.Go(func() error {
			_, err := store.Save(gctx, key, entry(fmt.Sprint(i)))
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, ssocache.ErrDuplicateKey):
				lost.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("concurrent save: %w", err)
	}
	if won.Load() != 1 {
		return fmt.Errorf("concurrent save: %d winners, want 1", won.Load())
	}

	fmt.Fprintf(out, "insert-once ok (%d duplicates rejected)\n", lost.Load())
	return nil
}

func jsonEqual(a, b json.RawMessage) bool {
	var x, y any
	if json.Unmarshal(a, &x) != nil || json.Unmarshal(b, &y) != nil {
		return false
	}
	return fmt.Sprint(x) == fmt.Sprint(y)
}
