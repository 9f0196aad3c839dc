package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/specialistvlad/rawgridgo/modules"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Without modules, every core kind is registered.
func NewApp(outW io.Writer, cfg Config, mods ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(mods) == 0 {
		mods = modules.Core()
	}
	for _, mod := range mods {
		mod.Register(reg)
	}
	logger.Debug("All block kinds registered.", "count", len(mods))

	// A mismatch between a kind's schema and its Go struct is a programmer
	// error, so we panic.
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Context derives a context carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// NewEngine creates an engine over the application's registry honoring the
// configured depth limit.
func (a *App) NewEngine(opts ...engine.Option) *engine.Engine {
	opts = append([]engine.Option{engine.WithMaxDepth(a.config.MaxDepth)}, opts...)
	return engine.New(a.registry, opts...)
}
