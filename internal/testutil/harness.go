// Package testutil provides the shared harness for integration-style
// tests that build an App over manifest fixtures.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modelkit/functor/internal/app"
	"github.com/modelkit/functor/internal/registry"
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

// HarnessResult holds the outcomes of a harness run. Output and Log keep
// accumulating if the caller goes on to run the App.
type HarnessResult struct {
	App    *app.App
	Output *bytes.Buffer
	Log    *SafeBuffer
	Err    error
}

// BuildApp writes the given manifest files (relative path → HCL content)
// into a temporary directory and constructs an App over them with the
// provided modules. Startup panics are recovered and returned as errors so
// negative tests can assert on them.
func BuildApp(t *testing.T, files map[string]string, detailed bool, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	manifestsPath := ""
	if len(files) > 0 {
		manifestsPath = tmpDir
	}
	cfg, err := app.NewConfig(app.Config{
		ManifestsPath: manifestsPath,
		Detailed:      detailed,
		LogFormat:     "text",
		LogLevel:      "debug",
	})
	require.NoError(t, err)

	result := &HarnessResult{
		Output: &bytes.Buffer{},
		Log:    &SafeBuffer{},
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		result.App = app.NewApp(result.Output, result.Log, cfg, modules...)
	}()

	return result
}
