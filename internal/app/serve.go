package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/metrics"
	"github.com/specialistvlad/rawgridgo/internal/notify"
	"github.com/specialistvlad/rawgridgo/internal/server"
	"github.com/specialistvlad/rawgridgo/internal/session"
	"github.com/specialistvlad/rawgridgo/internal/watch"
	"github.com/specialistvlad/rawgridgo/internal/workflow"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
var ShutdownTimeout = 5 * time.Second

// ServeOptions describes an interactive session.
type ServeOptions struct {
	// Workflow, if set, is loaded before serving.
	Workflow string
	// Listener overrides Config.Addr.
	Listener net.Listener
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	ctx = a.Context(ctx)
	logger := a.logger

	var observers []engine.Option
	var gatherer prometheus.Gatherer
	if a.config.Metrics {
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		observers = append(observers, engine.WithObserver(metrics.New(promReg)))
		gatherer = promReg
	}
	e := a.NewEngine(observers...)

	if a.config.NotifyURL != "" {
		pub, err := notify.Dial(ctx, notify.Options{URL: a.config.NotifyURL, Namespace: a.config.NotifyNamespace})
		if err != nil {
			return err
		}
		defer pub.Close()
		e.AddObserver(pub)
	}

	if opts.Workflow != "" {
		skipped, err := workflow.Load(ctx, e, opts.Workflow)
		if err != nil {
			return err
		}
		logger.Info("Workflow loaded.", "path", opts.Workflow, "blocks", e.Graph().Len(), "skipped_entries", len(skipped))
	}

	sess := session.New(e)
	srvOpts := server.Options{
		ThumbnailWidth:  a.config.ThumbnailWidth,
		ThumbnailHeight: a.config.ThumbnailHeight,
		Gatherer:        gatherer,
	}

	if a.config.Watch {
		w, err := watch.New(sess, a.config.WatchDebounce)
		if err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		defer w.Close()
		e.AddObserver(w)
		if err := w.Sync(ctx); err != nil {
			return err
		}
		srvOpts.WorkflowLoaded = func(ctx context.Context) {
			if err := w.Sync(ctx); err != nil {
				logger.Warn("Failed to sync file watcher.", "error", err)
			}
		}
		go w.Run(ctx)
		logger.Debug("File watcher started.")
	}

	ln := opts.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", a.config.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", a.config.Addr, err)
		}
	}

	httpServer := &http.Server{Handler: server.New(ctx, sess, srvOpts).Router()}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("🩺 HTTP server starting", "address", ln.Addr().String())
		// ErrServerClosed is the normal result of a graceful shutdown.
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server failed unexpectedly", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	logger.Info("🩺 Shutting down HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	logger.Debug("HTTP server shut down gracefully.")
	return nil
}
