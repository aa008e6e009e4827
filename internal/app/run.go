package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vk/fuzztruck/internal/controller"
	"github.com/vk/fuzztruck/internal/ctxlog"
	"github.com/vk/fuzztruck/internal/driver"
	"github.com/vk/fuzztruck/internal/health"
	"github.com/vk/fuzztruck/internal/sim"
)

// Run executes the selected mode.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "mode", a.config.Mode)

	var hub *sim.Hub
	if a.config.Mode == ModeSimulate && a.config.HealthPort > 0 {
		hub = sim.NewHub()
		defer hub.Close()
	}

	if a.config.HealthPort > 0 {
		var telemetry http.Handler
		if hub != nil {
			telemetry = hub
		}
		hs := health.New(a.config.HealthPort, a.metrics.Gatherer(), telemetry)
		hs.Start(ctx)
		defer hs.Shutdown(ctx)
	}

	switch a.config.Mode {
	case ModeSimulate:
		return a.runSimulate(ctx, hub)
	default:
		return a.runDrive(ctx)
	}
}

// runDrive builds the controller, connects, and runs one drive session.
func (a *App) runDrive(ctx context.Context) error {
	ctrl, err := controller.New(a.model)
	if err != nil {
		return fmt.Errorf("building controller: %w", err)
	}

	host, port, maxCycles := a.sessionSettings()
	client, err := driver.Dial(ctx, host, port)
	if err != nil {
		return err
	}
	defer client.Close()

	session := driver.NewSession(client, ctrl, a.metrics, maxCycles)
	summary, err := session.Run(ctx)
	if err != nil {
		return err
	}

	if summary.Completed {
		fmt.Fprintf(a.outW, "session complete after %d cycles: x=%.3f y=%.3f angle=%.1f\n",
			summary.Cycles, summary.LastState.X, summary.LastState.Y, summary.LastState.Angle)
	} else {
		fmt.Fprintf(a.outW, "session stopped at the %d cycle limit\n", summary.Cycles)
	}
	return nil
}

// runSimulate serves the built-in simulator until the context is cancelled.
func (a *App) runSimulate(ctx context.Context, hub *sim.Hub) error {
	host, port, maxCycles := a.sessionSettings()
	server := sim.NewServer(sim.Options{
		Host:      host,
		Port:      port,
		Tick:      a.config.Tick,
		MaxCycles: maxCycles,
		Seed:      a.config.Seed,
		Metrics:   a.metrics,
		Telemetry: hub,
	})
	if err := server.Listen(ctx); err != nil {
		return err
	}
	return server.Serve(ctx)
}
