// Package server runs the HTTP API alongside its background maintenance.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/flixcase/internal/events"
)

// Defaults for Config fields left zero.
const (
	DefaultShutdownTimeout = 30 * time.Second
	DefaultPruneInterval   = time.Hour
)

// Config for the server runner.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration

	// EventRetention bounds the import history kept in the events table.
	// Zero keeps everything.
	EventRetention time.Duration
	PruneInterval  time.Duration
}

// Runner serves HTTP and prunes the event log until its context ends.
type Runner struct {
	config  Config
	handler http.Handler
	events  *events.EventLog
	logger  *slog.Logger
}

// NewRunner creates a new runner. evlog may be nil.
func NewRunner(cfg Config, handler http.Handler, evlog *events.EventLog, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = DefaultPruneInterval
	}
	return &Runner{
		config:  cfg,
		handler: handler,
		events:  evlog,
		logger:  logger.With("component", "server"),
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
// A clean shutdown returns nil.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		r.logger.Info("server stopped")
		return nil
	})

	if r.events != nil && r.config.EventRetention > 0 {
		g.Go(func() error {
			r.pruneLoop(ctx)
			return nil
		})
	}

	return g.Wait()
}

func (r *Runner) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	r.prune(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.prune(ctx)
		}
	}
}

func (r *Runner) prune(ctx context.Context) {
	n, err := r.events.Prune(ctx, r.config.EventRetention)
	switch {
	case err != nil && ctx.Err() == nil:
		r.logger.Warn("prune events failed", "error", err)
	case n > 0:
		r.logger.Info("pruned events", "removed", n, "retention", r.config.EventRetention.String())
	}
}
