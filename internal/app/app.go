package app

import (
	"io"
	"log/slog"

	"github.com/qubelet/qsampler/internal/backend"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *backend.Registry
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and backend
// registry. Manifest loading is deferred to Run so that load failures are
// reported as run errors rather than startup panics.
func NewApp(outW io.Writer, config *Config, modules ...backend.Module) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	// Create and populate the registry with simulation backends. A duplicate
	// registration is a programmer error, so Register panics.
	reg := backend.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All backend modules registered.", "count", len(modules), "backends", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   config,
	}
}

// Registry returns the application's backend registry. This is primarily
// for testing.
func (a *App) Registry() *backend.Registry {
	return a.registry
}
