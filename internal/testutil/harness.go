// Package testutil provides the shared harness for end-to-end generator
// tests: write a definition to a temp directory, run a full generation
// pass, inspect the artifacts and logs.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/projgen/internal/app"
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

// HarnessResult holds the outcomes of one generation pass.
type HarnessResult struct {
	LogOutput string
	Err       error
	OutDir    string
}

// Artifact reads a synthesized artifact relative to the output directory.
// The test fails if the file does not exist.
func (r *HarnessResult) Artifact(t *testing.T, relPath string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(r.OutDir, relPath))
	require.NoError(t, err, "expected artifact %s to exist", relPath)
	return string(content)
}

// HasArtifact reports whether relPath was written to the output directory.
func (r *HarnessResult) HasArtifact(relPath string) bool {
	_, err := os.Stat(filepath.Join(r.OutDir, relPath))
	return err == nil
}

// RunGeneration provides a standardized harness for end-to-end tests
// using a default background context.
func RunGeneration(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunGenerationWithConfig(context.Background(), t, files, nil)
}

// RunGenerationWithConfig runs a full generation pass over the given
// definition files. The files map uses paths relative to the definition
// directory. adjust, when non-nil, mutates the app config before the run.
func RunGenerationWithConfig(ctx context.Context, t *testing.T, files map[string]string, adjust func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	defDir := filepath.Join(tmpDir, "def")
	outDir := filepath.Join(tmpDir, "out")
	require.NoError(t, os.Mkdir(defDir, 0o755))
	require.NoError(t, os.Mkdir(outDir, 0o755))

	for name, content := range files {
		path := filepath.Join(defDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	config := &app.Config{
		ProjectPath: defDir,
		OutDir:      outDir,
		LogLevel:    "debug",
		LogFormat:   "text",
	}
	if adjust != nil {
		adjust(config)
	}

	logBuffer := &SafeBuffer{}
	runErr := app.NewApp(logBuffer, config).Run(ctx)

	if os.Getenv("PROJGEN_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		OutDir:    outDir,
	}
}
