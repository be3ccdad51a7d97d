package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vk/forgegrid/internal/config"
	"github.com/vk/forgegrid/internal/ctxlog"
	"github.com/vk/forgegrid/internal/executor"
	"github.com/vk/forgegrid/internal/metrics"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	ctx        context.Context
	config     *Config
	scenario   *config.Scenario
	metrics    *metrics.Metrics
	runID      string
	httpServer *http.Server
}

// New is the constructor for the main application. Logs go to logW and the
// final report to outW. The scenario is loaded and validated here, so a
// returned App is ready to Run.
func New(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	scenario, err := loader.Load(ctx, cfg.ScenarioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	logger.Debug("Scenario loaded and translated into unified model.")

	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Scenario validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   cfg,
		scenario: scenario,
		metrics:  metrics.New(),
		runID:    runID,
	}, nil
}

// Scenario returns the loaded scenario. This is primarily for testing.
func (a *App) Scenario() *config.Scenario {
	return a.scenario
}

// RunID returns the identifier attached to every log line of this run.
func (a *App) RunID() string {
	return a.runID
}

// Metrics returns the collectors the run reports into.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// options merges command-line tuning over the scenario's simulation block.
func (a *App) options() executor.Options {
	sim := a.scenario.Simulation
	opts := executor.Options{
		PollInterval: firstDuration(a.config.PollInterval, sim.PollInterval),
		Threshold:    a.config.Threshold,
		TimeUnit:     firstDuration(a.config.TimeUnit, sim.TimeUnit, DefaultTimeUnit),
		Metrics:      a.metrics,
	}
	if opts.Threshold == 0 {
		opts.Threshold = sim.Threshold
	}
	return opts
}

func firstDuration(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
