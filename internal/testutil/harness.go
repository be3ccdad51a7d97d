package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/forgegrid/internal/app"
	"github.com/vk/forgegrid/internal/executor"
	"github.com/vk/forgegrid/internal/hcl"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Report    string
	Result    *executor.Result
	Err       error
	App       *app.App
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, cfg)
}

// RunIntegrationTestWithContext writes files under a temporary scenario
// directory, points cfg at it and runs the full application. Startup and run
// errors are both returned in Err.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	scenarioDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(scenarioDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	cfg.ScenarioPath = scenarioDir
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	if cfg.TimeUnit == 0 {
		cfg.TimeUnit = 50 * time.Microsecond
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 2 * time.Millisecond
	}

	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &app.SafeBuffer{}
	reportBuffer := &app.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("FORGEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	testApp, err := app.New(reportBuffer, logBuffer, appConfig, hcl.NewLoader(appConfig.Vars))
	if err != nil {
		return &HarnessResult{LogOutput: logBuffer.String(), Err: err}
	}

	res, err := testApp.Run(ctx)
	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Report:    reportBuffer.String(),
		Result:    res,
		Err:       err,
		App:       testApp,
	}
}
