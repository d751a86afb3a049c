package ssocache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// Gateway is the subset of a pgx connection pool used by the store.
// *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it.
type Gateway interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// nilGateway also catches typed nil pools and connections, which would
// otherwise panic on the first query.
func nilGateway(gw Gateway) bool {
	switch g := gw.(type) {
	case nil:
		return true
	case *pgxpool.Pool:
		return g == nil
	case *pgx.Conn:
		return g == nil
	}
	return false
}

type statements struct {
	get    string
	insert string
	remove string
	purge  string
}

func newStatements(table string) statements {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return statements{
		get:    fmt.Sprintf("SELECT value FROM %s WHERE key = $1", ident),
		insert: fmt.Sprintf("INSERT INTO %s (key, value) VALUES ($1, $2) RETURNING created_at", ident),
		remove: fmt.Sprintf("DELETE FROM %s WHERE key = $1 RETURNING key", ident),
		purge:  fmt.Sprintf("DELETE FROM %s WHERE created_at < now() - $1 * interval '1 millisecond'", ident),
	}
}

// Store is a PostgreSQL-backed cache with at-most-once insertion per key
// and a background reaper deleting entries older than the TTL.
//
// Uniqueness is enforced by the table's primary key, so concurrent Saves of
// the same key from any number of processes yield exactly one success.
type Store[V any] struct {
	gw        Gateway
	marshaler Marshaler[V]
	reaper    *Reaper
	stmt      statements
	ttl       time.Duration
}

// New creates a PostgreSQL-backed cache store and starts its reaper.
// The gateway is not owned by the store; closing the store leaves it open.
//
// An optional Marshaler can be provided to customize serialization.
// If nil, JSON serialization is used.
//
// Example:
//
//	pool, _ := db.Connect(ctx, cfg)
//	store, err := ssocache.New[string](pool, nil,
//	    ssocache.WithTTL(10*time.Minute),
//	    ssocache.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func New[V any](gw Gateway, m Marshaler[V], opts ...Option) (*Store[V], error) {
	if nilGateway(gw) {
		return nil, ErrGatewayRequired
	}

	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	if m == nil {
		m = jsonMarshaler[V]{}
	}

	s := &Store[V]{
		gw:        gw,
		marshaler: m,
		stmt:      newStatements(o.table),
		ttl:       o.ttl,
	}

	if !o.noReaper {
		s.reaper = newReaper(s.Purge, o.ttl, o.logger)
		s.reaper.Start()
	}

	return s, nil
}

// Get retrieves a value by key.
// The boolean result is false when the key does not exist.
func (s *Store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V

	var raw string
	if err := s.gw.QueryRow(ctx, s.stmt.get, key).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, errors.Join(ErrStorage, err)
	}

	v, err := s.marshaler.Unmarshal([]byte(raw))
	if err != nil {
		return zero, false, wrap(ErrUnmarshal, err)
	}

	return v, true, nil
}

// Save stores a value under a new key.
// Returns ErrDuplicateKey if the key already exists; the stored value is left untouched.
func (s *Store[V]) Save(ctx context.Context, key string, value V) (*Item[V], error) {
	data, err := s.marshaler.Marshal(value)
	if err != nil {
		return nil, wrap(ErrMarshal, err)
	}

	var createdAt time.Time
	if err := s.gw.QueryRow(ctx, s.stmt.insert, key, string(data)).Scan(&createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, errors.Join(ErrDuplicateKey, err)
		}
		return nil, errors.Join(ErrStorage, err)
	}

	return &Item[V]{Value: value, CreatedAt: createdAt}, nil
}

// Remove deletes a key. It returns the removed key, or false if no entry existed.
// Removing an absent key is not an error.
func (s *Store[V]) Remove(ctx context.Context, key string) (string, bool, error) {
	var removed string
	if err := s.gw.QueryRow(ctx, s.stmt.remove, key).Scan(&removed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.Join(ErrStorage, err)
	}
	return removed, true, nil
}

// Purge deletes every entry older than the TTL and returns the number of rows removed.
// The age is compared against the database clock when the statement runs.
func (s *Store[V]) Purge(ctx context.Context) (int64, error) {
	tag, err := s.gw.Exec(ctx, s.stmt.purge, s.ttl.Milliseconds())
	if err != nil {
		return 0, errors.Join(ErrStorage, err)
	}
	return tag.RowsAffected(), nil
}

// TTL returns the configured maximum entry age.
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}

// Close stops the reaper. Close is idempotent.
// The gateway stays open and foreground operations keep working.
func (s *Store[V]) Close() error {
	if s.reaper != nil {
		s.reaper.Stop()
	}
	return nil
}

// wrap joins sentinel with err unless err already carries it.
func wrap(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return errors.Join(sentinel, err)
}

var _ Cache[any] = (*Store[any])(nil)
