package exec

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerCommand(t *testing.T) {
	name, args := viewerCommand("linux", "/tmp/c.png")
	assert.Equal(t, "xdg-open", name)
	assert.Equal(t, []string{"/tmp/c.png"}, args)

	name, _ = viewerCommand("darwin", "/tmp/c.png")
	assert.Equal(t, "open", name)

	name, args = viewerCommand("windows", `C:\c.png`)
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, `C:\c.png`, args[1])
}

func TestHasDisplay(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}
	assert.True(t, HasDisplay("darwin", env(nil)))
	assert.False(t, HasDisplay("linux", env(nil)))
	assert.True(t, HasDisplay("linux", env(map[string]string{"DISPLAY": ":0"})))
	assert.True(t, HasDisplay("freebsd", env(map[string]string{"WAYLAND_DISPLAY": "wayland-0"})))
}

func TestOpenFile_MissingFile(t *testing.T) {
	err := OpenFile(filepath.Join(t.TempDir(), "missing.png"), time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func writeChart(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0644))
	return path
}

func TestOpenFile_Headless(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("display detection is env based on linux only")
	}
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	err := OpenFile(writeChart(t), time.Second)
	assert.ErrorIs(t, err, ErrNoDisplay)
}

func TestOpenFile_NoViewer(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("uses xdg-open lookup")
	}
	t.Setenv("DISPLAY", ":0")
	t.Setenv("PATH", t.TempDir())

	err := OpenFile(writeChart(t), time.Second)
	assert.ErrorIs(t, err, ErrNoViewer)
}

func TestOpenFile_RunsViewer(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("uses a shell script as xdg-open")
	}
	bin := t.TempDir()
	marker := filepath.Join(t.TempDir(), "opened")
	script := "#!/bin/sh\necho \"$1\" > " + marker + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "xdg-open"), []byte(script), 0755))

	t.Setenv("DISPLAY", ":0")
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	chart := writeChart(t)
	require.NoError(t, OpenFile(chart, 5*time.Second))

	got, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, chart+"\n", string(got))
}
