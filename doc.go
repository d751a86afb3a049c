// Package ssocache provides a persistent, TTL-bounded key-value cache for
// short-lived single-sign-on protocol state, such as pending SAML request ids.
//
// Entries live in a PostgreSQL table shared by every server instance, so state
// survives restarts and is visible to whichever instance handles the response.
//
// # Operations
//
// The [Cache] interface has three key-addressed operations:
//
//   - Get(ctx, key) (V, bool, error): fetch a value; false when absent
//   - Save(ctx, key, value) (*Item[V], error): insert once; [ErrDuplicateKey] if present
//   - Remove(ctx, key) (string, bool, error): delete; false when absent
//
// Absence is never an error. Storage failures are wrapped in [ErrStorage] and
// returned as is; the cache does not retry or hide them.
//
// # Insert once
//
// Save relies on the table's primary key. Two concurrent Saves of the same key,
// from one process or many, produce exactly one success and one [ErrDuplicateKey].
// The stored value is never overwritten.
//
// # Expiration
//
// A [Reaper] owned by the [Store] deletes entries older than the TTL once per
// TTL, starting one TTL after [New]. The age comparison runs on the database
// clock, so a late tick still deletes the right rows. An entry is readable until
// the first tick after it has aged past the TTL.
//
//	store, err := ssocache.New[string](pool, nil,
//	    ssocache.WithTTL(10*time.Minute),
//	    ssocache.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if _, err := store.Save(ctx, requestID, relayState); err != nil {
//	    return err
//	}
//	state, ok, err := store.Get(ctx, requestID)
//
// For clusters, build the store [WithoutReaper] and register a [PurgeTask] with
// the River-based job manager from pkg/job, which runs periodic jobs on one
// elected leader.
//
// # Schema
//
// [Migrations] returns goose migrations creating the default "sso_cache" table:
//
//	err := db.Migrate(ctx, pool, ssocache.Migrations(), "schema_migrations", log)
//
// # Redis
//
// [NewRedis] implements the same contract on Redis using SET NX PX.
// Expiry is native there, so no reaper runs.
//
// # Memory
//
// [NewMemory] keeps entries in process, with the same reaper. It is meant for
// tests and single-instance development.
//
// # Error Handling
//
//   - [ErrGatewayRequired]: nil pool or client
//   - [ErrInvalidTTL]: TTL not a positive whole number of milliseconds
//   - [ErrInvalidTable]: table name is not a plain identifier
//   - [ErrDuplicateKey]: Save on an existing key
//   - [ErrStorage]: any gateway failure
//   - [ErrMarshal], [ErrUnmarshal]: value serialization failures
package ssocache
