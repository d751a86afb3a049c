// Package db opens and provisions the PostgreSQL database behind the cache store.
//
// It wraps [github.com/jackc/pgx/v5/pgxpool] with startup retries, a readiness
// check, and schema migrations run by [github.com/pressly/goose/v3].
//
// # Connecting
//
//	pool, err := db.Connect(ctx, db.Config{
//		ConnectionString: os.Getenv("SSOCACHE_DATABASE_URL"),
//	})
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// Zero-valued fields fall back to [DefaultConfig].
//
// # Migrations
//
// [Migrate] applies goose migrations from any [io/fs.FS], typically the
// cache table shipped with the store:
//
//	err := db.Migrate(ctx, pool, ssocache.Migrations(), "schema_migrations", log)
//
// [MigrateRiver] creates River's job tables inside one transaction. Run it when
// stale entries are purged by the River periodic job instead of the in-process reaper.
//
// # Health Checks
//
// [Healthcheck] returns a closure for readiness endpoints:
//
//	checks := health.Checks{"postgres": db.Healthcheck(pool)}
//
// # Error Handling
//
//   - [ErrFailedToParseDBConfig] - Invalid connection string format
//   - [ErrFailedToOpenDBConnection] - Connection failed after all retries
//   - [ErrHealthcheckFailed] - Database ping failed
//   - [ErrSetDialect] - Migration dialect configuration error
//   - [ErrApplyMigrations] - Migration execution failed
//   - [ErrApplyRiverMigrations] - River migration failed
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package db
