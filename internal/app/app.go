package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/fuzztruck/internal/config"
	"github.com/vk/fuzztruck/internal/ctxlog"
	"github.com/vk/fuzztruck/internal/metrics"
	"github.com/vk/fuzztruck/internal/profile"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	model   *config.Model
	metrics *metrics.Metrics
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and metrics
// registry. A broken controller definition is a fatal startup error and
// panics; the entrypoint recovers and reports it.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var model *config.Model
	if appConfig.ConfigPath == "" {
		model = profile.Truck()
		logger.Debug("Using the built-in truck controller profile.")
	} else {
		m, err := loader.Load(ctx, appConfig.ConfigPath)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		model = m
		logger.Debug("Controller definition loaded.", "path", appConfig.ConfigPath)
	}

	if err := model.Validate(); err != nil {
		panic(fmt.Errorf("invalid controller definition: %w", err))
	}
	logger.Debug("Controller definition validated.",
		"controller", model.Controller.Name,
		"variables", len(model.Variables),
		"rules", len(model.Rules),
	)

	return &App{
		outW:    outW,
		logger:  logger,
		config:  appConfig,
		model:   model,
		metrics: metrics.New(),
	}
}

// Model returns the loaded controller model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// sessionSettings resolves host, port, and cycle limit with the
// precedence: command line, then the definition's session block, then
// defaults.
func (a *App) sessionSettings() (host string, port, maxCycles int) {
	host = a.config.Host
	port = a.config.Port
	maxCycles = a.config.MaxCycles
	if s := a.model.Session; s != nil {
		if host == "" {
			host = s.Host
		}
		if port == 0 {
			port = s.Port
		}
		if maxCycles == 0 {
			maxCycles = s.MaxCycles
		}
	}
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	if maxCycles == 0 {
		maxCycles = DefaultMaxCycles
	}
	return host, port, maxCycles
}
