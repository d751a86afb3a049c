package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

// Migrate applies goose migrations found at the root of migrations,
// e.g. ssocache.Migrations().
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, migrationTable string, log *slog.Logger) error {
	// goose needs database/sql. The wrapper shares the pool's connections,
	// so it is not closed here.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(migrationTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

// MigrateRiver creates or upgrades the River job tables in a single transaction.
// Needed only when expired entries are purged by the River periodic job.
func MigrateRiver(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: log})
	if err != nil {
		return errors.Join(ErrApplyRiverMigrations, err)
	}

	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		res, err := migrator.MigrateTx(ctx, tx, rivermigrate.DirectionUp, nil)
		if err != nil {
			return errors.Join(ErrApplyRiverMigrations, err)
		}
		for _, v := range res.Versions {
			log.InfoContext(ctx, "applied river migration", slog.Int("version", v.Version))
		}
		return nil
	})
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// goose returns the error anyway; never exit from here.
	g.log.Error(fmt.Sprintf(format, args...))
}
