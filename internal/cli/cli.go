package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/forgegrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// varFlags collects repeated `-var name=value` assignments.
type varFlags map[string]string

func (v varFlags) String() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+v[name])
	}
	return strings.Join(parts, ",")
}

func (v varFlags) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	v[name] = value
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("forgegrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ForgeGrid - A concurrent production simulator.

Usage:
  forgegrid [options] [SCENARIO_PATH]

Arguments:
  SCENARIO_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	vars := varFlags{}
	scenarioFlag := flagSet.String("scenario", "", "Path to the scenario file or directory.")
	sFlag := flagSet.String("s", "", "Path to the scenario file or directory (shorthand).")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pollFlag := flagSet.Duration("poll-interval", 0, "Time between termination checks. 0 uses the scenario value or 50ms.")
	thresholdFlag := flagSet.Int("threshold", 0, "Starved checks in a row before the run stops. 0 uses the scenario value or 4.")
	timeUnitFlag := flagSet.Duration("time-unit", 0, "Wall-clock length of one simulated time unit. 0 uses the scenario value or 1ms.")
	reportFlag := flagSet.String("report-format", "text", "Report output format. Options: 'text' or 'json'.")
	flagSet.Var(vars, "var", "Set a scenario variable as name=value. May be repeated.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *scenarioFlag != "" {
		path = *scenarioFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Scenario path determined.", "path", path)

	if path == "" {
		slog.Debug("No scenario path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "warning", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ScenarioPath:    path,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		PollInterval:    *pollFlag,
		Threshold:       *thresholdFlag,
		TimeUnit:        *timeUnitFlag,
		ReportFormat:    strings.ToLower(*reportFlag),
		Vars:            vars,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
