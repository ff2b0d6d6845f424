package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

var (
	ErrNoDisplay = errors.New("no graphical display available")
	ErrNoViewer  = errors.New("no image viewer found")
)

var lookPath = exec.LookPath

// viewerCommand returns the platform command that opens path in the default viewer.
func viewerCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

// HasDisplay reports whether a graphical session is reachable.
// macOS and Windows always have one for an interactive user.
func HasDisplay(goos string, getenv func(string) string) bool {
	switch goos {
	case "darwin", "windows":
		return true
	}
	return getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != ""
}

// OpenFile shows path in the desktop's default viewer and waits at most
// timeout for the launcher to hand off.
func OpenFile(path string, timeout time.Duration) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	if !HasDisplay(runtime.GOOS, os.Getenv) {
		return ErrNoDisplay
	}

	name, args := viewerCommand(runtime.GOOS, absPath)
	if _, err := lookPath(name); err != nil {
		return fmt.Errorf("%w: %s is not installed or not in PATH", ErrNoViewer, name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s timed out after %v", name, timeout)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, output)
	}
	return nil
}
