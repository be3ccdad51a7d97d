package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/forgegrid/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. It returns the
// app, the report buffer and the log buffer.
func SetupAppTest(t *testing.T, cfg *Config) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	outBuffer := &SafeBuffer{}
	logBuffer := &SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp, err := New(outBuffer, logBuffer, cfg, hcl.NewLoader(cfg.Vars))
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("FORGEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
