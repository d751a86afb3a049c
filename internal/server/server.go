package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Server timeouts. The service only answers probes, so they are fixed.
const (
	defaultAddress           = ":8080"
	defaultReadTimeout       = 5 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultReadHeaderTimeout = 2 * time.Second
	defaultMaxHeaderBytes    = 1 << 16
	defaultShutdownTimeout   = 30 * time.Second
)

type config struct {
	baseCtx         context.Context
	logger          *slog.Logger
	listener        net.Listener
	address         string
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	shutdownTimeout time.Duration
}

// Option configures Run.
type Option func(*config)

// Address sets the listen address. Defaults to ":8080".
func Address(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.address = addr
		}
	}
}

// Listener serves on an existing listener instead of Address.
func Listener(ln net.Listener) Option {
	return func(c *config) {
		if ln != nil {
			c.listener = ln
		}
	}
}

// Logger sets the server logger. If nil, logging is disabled.
func Logger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout bounds HTTP draining plus all shutdown hooks.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// StartupHook runs before the listener accepts traffic. A failing hook
// aborts Run; shutdown hooks still run.
func StartupHook(fn func(context.Context) error) Option {
	return func(c *config) {
		if fn != nil {
			c.startupHooks = append(c.startupHooks, fn)
		}
	}
}

// ShutdownHook registers a cleanup function. Hooks run in registration
// order after the HTTP server has drained.
//
//	server.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) Option {
	return func(c *config) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WithContext sets the parent of the signal-aware context.
// Cancelling it triggers a graceful shutdown, as SIGINT or SIGTERM do.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// Run serves handler until the context ends or a signal arrives, then shuts
// down gracefully.
func Run(handler http.Handler, opts ...Option) error {
	cfg := &config{
		address:         defaultAddress,
		shutdownTimeout: defaultShutdownTimeout,
		baseCtx:         context.Background(),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	if err := start(ctx, cfg, srv, errCh); err != nil {
		errCh <- err
	}

	var errs []error
	select {
	case err := <-errCh:
		errs = append(errs, err)
	case <-ctx.Done():
	}

	cfg.logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			cfg.logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		cfg.logger.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	cfg.logger.Info("shutdown completed")
	return nil
}

// start runs the startup hooks, then serves in the background. Serve errors
// are reported on errCh.
func start(ctx context.Context, cfg *config, srv *http.Server, errCh chan<- error) error {
	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			cfg.logger.Error("startup hook failed", slog.Any("error", err))
			return err
		}
	}

	ln := cfg.listener
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", cfg.address); err != nil {
			return err
		}
	}

	go func() {
		cfg.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return nil
}
