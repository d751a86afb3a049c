package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssocache/pkg/health"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

func blocking(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func get(t *testing.T, h http.Handler, target string, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Live(t *testing.T) {
	t.Parallel()

	h := health.Routes(health.Checks{"db": failing})

	rec := get(t, h, "/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRoutes_Ready(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		h := health.Routes(health.Checks{"db": ok, "jobs": ok})

		rec := get(t, h, "/ready", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("unhealthy json", func(t *testing.T) {
		h := health.Routes(health.Checks{"db": ok, "redis": failing})

		rec := get(t, h, "/ready", "application/json")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Equal(t, health.StatusHealthy, resp.Checks["db"].Status)
		assert.Equal(t, health.StatusUnhealthy, resp.Checks["redis"].Status)
		assert.Equal(t, "connection refused", resp.Checks["redis"].Error)
	})

	t.Run("format query", func(t *testing.T) {
		h := health.Routes(nil)

		rec := get(t, h, "/ready?format=json", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, health.StatusHealthy, resp.Status)
	})

	t.Run("plain text failure", func(t *testing.T) {
		h := health.Routes(health.Checks{"db": failing})

		rec := get(t, h, "/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Service Unavailable", rec.Body.String())
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := get(t, health.Routes(nil), "/status", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		resp, err := health.Run(context.Background(), health.Checks{"db": ok})
		require.NoError(t, err)
		assert.Equal(t, health.StatusHealthy, resp.Status)
	})

	t.Run("timeout", func(t *testing.T) {
		resp, err := health.Run(context.Background(),
			health.Checks{"db": blocking, "jobs": ok},
			health.WithTimeout(20*time.Millisecond),
		)
		require.ErrorIs(t, err, health.ErrCheckFailed)
		assert.Equal(t, health.StatusUnhealthy, resp.Checks["db"].Status)
		assert.Contains(t, resp.Checks["db"].Error, health.ErrCheckTimeout.Error())
		assert.Equal(t, health.StatusHealthy, resp.Checks["jobs"].Status)
	})
}
