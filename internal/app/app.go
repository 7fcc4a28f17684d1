package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/modelkit/functor/internal/ctxlog"
	"github.com/modelkit/functor/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry.
// Listings are written to outW; logs go to logW so the rendered output
// stays machine-readable.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = builtinModules(outW)
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All functor modules registered.", "count", len(modules))

	if cfg.ManifestsPath != "" {
		if err := reg.LoadManifests(ctx, cfg.ManifestsPath); err != nil {
			// A failure to load manifests is a fatal startup error.
			panic(fmt.Errorf("failed to load manifests: %w", err))
		}
		logger.Debug("Manifests loaded.", "path", cfg.ManifestsPath)
	}

	// A mismatch between manifests and Go declarations is a programmer
	// error, so we panic.
	if err := reg.Validate(ctx); err != nil {
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

// Registry returns the application's registry. This is primarily for
// testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
