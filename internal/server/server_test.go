package server_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssocache/internal/server"
)

func TestRun_GracefulShutdown(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var order []string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})

	done := make(chan error, 1)
	go func() {
		done <- server.Run(handler,
			server.Listener(ln),
			server.WithContext(ctx),
			server.StartupHook(func(context.Context) error { order = append(order, "start"); return nil }),
			server.ShutdownHook(func(context.Context) error { order = append(order, "first"); return nil }),
			server.ShutdownHook(func(context.Context) error { order = append(order, "second"); return nil }),
		)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body) == "pong"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, []string{"start", "first", "second"}, order)
}

func TestRun_StartupHookFails(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("Boom!")
	shutdownRan := false

	err := server.Run(http.NotFoundHandler(),
		server.Address("127.0.0.1:0"),
		server.StartupHook(func(context.Context) error { return errBoom }),
		server.ShutdownHook(func(context.Context) error { shutdownRan = true; return nil }),
	)

	assert.ErrorIs(t, err, errBoom)
	assert.True(t, shutdownRan)
}

func TestRun_ShutdownHookErrorsJoined(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errFirst := errors.New("first")
	errSecond := errors.New("second")

	err := server.Run(http.NotFoundHandler(),
		server.Address("127.0.0.1:0"),
		server.WithContext(ctx),
		server.ShutdownHook(func(context.Context) error { return errFirst }),
		server.ShutdownHook(func(context.Context) error { return errSecond }),
	)

	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errSecond)
}

func TestRun_ListenError(t *testing.T) {
	t.Parallel()

	err := server.Run(http.NotFoundHandler(), server.Address("not-an-address"))
	assert.Error(t, err)
}
