package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_WritesStructuredFileLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(dir))

	LogInfo("Dataset loaded", zap.String("path", "iacs.csv"), zap.Int("rows", 3))
	LogError("Failed to save chart", zap.Error(errors.New("disk full")))
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "INFO Dataset loaded\t")
	assert.Contains(t, lines[0], `"path":"iacs.csv"`)
	assert.Contains(t, lines[0], `"rows":3`)
	assert.Contains(t, lines[1], "ERROR Failed to save chart")
	assert.Contains(t, lines[1], `"error":"disk full"`)
}

func TestInit_SameDirIsNoop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	first := Logger
	require.NoError(t, Init(dir))
	assert.Same(t, first, Logger)
}

func TestDurationMs(t *testing.T) {
	assert.Equal(t, int64(42), durationMs([]zap.Field{zap.String("a", "b"), zap.Int64("duration_ms", 42)}))
	assert.Zero(t, durationMs(nil))
}
