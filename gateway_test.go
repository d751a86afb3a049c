package ssocache_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memGateway emulates the cache table: primary key on key, created_at set on
// insert, age-based bulk delete. It answers the statements the store issues.
type memGateway struct {
	err     error
	rows    map[string]memRow
	purges  atomic.Int32
	queries atomic.Int32
	mu      sync.Mutex
}

type memRow struct {
	createdAt time.Time
	value     string
}

func newMemGateway() *memGateway {
	return &memGateway{rows: make(map[string]memRow)}
}

// failingGateway returns err from every call.
func failingGateway(err error) *memGateway {
	g := newMemGateway()
	g.err = err
	return g
}

func (g *memGateway) put(key, value string, createdAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows[key] = memRow{value: value, createdAt: createdAt}
}

func (g *memGateway) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	g.queries.Add(1)
	if g.err != nil {
		return memResult{err: g.err}
	}
	if err := ctx.Err(); err != nil {
		return memResult{err: err}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := args[0].(string)
	switch {
	case strings.HasPrefix(sql, "SELECT value"):
		r, ok := g.rows[key]
		if !ok {
			return memResult{err: pgx.ErrNoRows}
		}
		return memResult{vals: []any{r.value}}

	case strings.HasPrefix(sql, "INSERT"):
		if _, ok := g.rows[key]; ok {
			return memResult{err: &pgconn.PgError{
				Severity:       "ERROR",
				Code:           "23505",
				Message:        `duplicate key value violates unique constraint "sso_cache_pkey"`,
				ConstraintName: "sso_cache_pkey",
			}}
		}
		now := time.Now()
		g.rows[key] = memRow{value: args[1].(string), createdAt: now}
		return memResult{vals: []any{now}}

	case strings.HasPrefix(sql, "DELETE") && strings.Contains(sql, "WHERE key"):
		if _, ok := g.rows[key]; !ok {
			return memResult{err: pgx.ErrNoRows}
		}
		delete(g.rows, key)
		return memResult{vals: []any{key}}
	}

	return memResult{err: fmt.Errorf("memGateway: unexpected statement %q", sql)}
}

func (g *memGateway) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	g.purges.Add(1)
	if g.err != nil {
		return pgconn.CommandTag{}, g.err
	}
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}
	if !strings.Contains(sql, "created_at <") {
		return pgconn.CommandTag{}, fmt.Errorf("memGateway: unexpected statement %q", sql)
	}

	cutoff := time.Now().Add(-time.Duration(args[0].(int64)) * time.Millisecond)

	g.mu.Lock()
	defer g.mu.Unlock()

	var n int
	for k, r := range g.rows {
		if r.createdAt.Before(cutoff) {
			delete(g.rows, k)
			n++
		}
	}
	return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", n)), nil
}

type memResult struct {
	err  error
	vals []any
}

func (r memResult) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("memResult: scan %d columns into %d targets", len(r.vals), len(dest))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = r.vals[i].(string)
		case *time.Time:
			*d = r.vals[i].(time.Time)
		default:
			return fmt.Errorf("memResult: unsupported target %T", d)
		}
	}
	return nil
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
