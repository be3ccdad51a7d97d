package app

import (
	"context"
	"fmt"

	"github.com/vk/forgegrid/internal/ctxlog"
	"github.com/vk/forgegrid/internal/executor"
	"github.com/vk/forgegrid/internal/report"
)

// Run executes the simulation and writes the report. The result is returned
// as well so callers can inspect it without parsing the report.
func (a *App) Run(ctx context.Context) (*executor.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer func() {
		_ = a.closeHealthCheckServer()
	}()

	opts := a.options()
	a.logger.Debug("Run options resolved.",
		"poll_interval", opts.PollInterval,
		"threshold", opts.Threshold,
		"time_unit", opts.TimeUnit,
	)

	if len(a.scenario.Buildings) == 0 {
		a.logger.Warn("No buildings found in scenario, nothing will be produced.")
	}

	a.logger.Info("🚀 Starting production run...")
	res, err := executor.New(a.scenario, opts).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Production run finished.", "productions", len(res.Log), "completion_time", res.CompletionTime)

	if err := report.Write(a.outW, a.config.ReportFormat, res); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return res, nil
}
