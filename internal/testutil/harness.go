package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qubelet/qsampler/internal/app"
	"github.com/qubelet/qsampler/internal/backend"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run. The app
// shares one writer for logs and rendered output, so LogOutput carries both.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest provides a standardized harness for running a full
// sampling pass over the given manifest files using a default background
// context.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...backend.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, modules...)
}

// RunIntegrationTestWithContext writes the manifest files to a temporary
// directory, builds an App over it, and runs a full sampling pass with the
// context provided by the caller.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, modules ...backend.Module) *HarnessResult {
	t.Helper()

	// 1. Write all manifest files to a temporary directory. Relative paths
	//    with subdirectories (e.g. "circuits/bell.hcl") work as-is.
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	// 2. Point the app at the directory root; Load walks it recursively.
	appConfig, err := app.NewConfig(app.Config{
		ManifestPaths: []string{tmpDir},
		LogLevel:      "debug",
		LogFormat:     "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	// 3. Startup panics (broken backend wiring) must fail the harness, not
	//    the test process.
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			App:       nil,
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("QSAMPLER_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
