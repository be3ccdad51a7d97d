package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/forgegrid/internal/report"
)

// DefaultTimeUnit is the wall-clock length of one simulated time unit when
// neither the scenario nor the command line sets one.
const DefaultTimeUnit = time.Millisecond

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScenarioPath string // .hcl file or directory

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Zero means "not set on the command line"; the scenario's simulation
	// block and then the package defaults are consulted.
	PollInterval time.Duration
	Threshold    int
	TimeUnit     time.Duration

	ReportFormat string
	Vars         map[string]string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScenarioPath == "" {
		return nil, errors.New("ScenarioPath is a required configuration field and cannot be empty")
	}
	if cfg.PollInterval < 0 {
		return nil, fmt.Errorf("poll interval must not be negative, got %s", cfg.PollInterval)
	}
	if cfg.Threshold < 0 {
		return nil, fmt.Errorf("threshold must not be negative, got %d", cfg.Threshold)
	}
	if cfg.TimeUnit < 0 {
		return nil, fmt.Errorf("time unit must not be negative, got %s", cfg.TimeUnit)
	}
	switch cfg.ReportFormat {
	case "":
		cfg.ReportFormat = report.FormatText
	case report.FormatText, report.FormatJSON:
	default:
		return nil, fmt.Errorf("invalid report format %q: must be %q or %q", cfg.ReportFormat, report.FormatText, report.FormatJSON)
	}

	return &cfg, nil
}
