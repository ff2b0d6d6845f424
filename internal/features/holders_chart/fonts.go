package holders_chart

import (
	"os"
	"path/filepath"
	"sync"

	logging "iacs-holders/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Inter first, then common sans fonts shipped by macOS and Linux distros.
var fontPaths = []string{
	"etc/fonts/InterVariable.ttf",
	"etc/fonts/Inter-Regular.ttf",
	"~/Library/Fonts/InterVariable.ttf",
	"~/Library/Fonts/Inter-Regular.ttf",
	"/Library/Fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
	"/usr/local/share/fonts/Inter-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
}

var (
	fontOnce sync.Once
	fontPath string
)

func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// resolveFont picks the first loadable font file, or "" for the bitmap fallback.
func resolveFont() string {
	fontOnce.Do(func() {
		for _, p := range fontPaths {
			expanded := expandHome(p)
			if _, err := os.Stat(expanded); err != nil {
				continue
			}
			if _, err := gg.LoadFontFace(expanded, 12); err != nil {
				logging.LogWarn("Font file exists but failed to load", zap.String("path", expanded), zap.Error(err))
				continue
			}
			fontPath = expanded
			logging.LogInfo("Loaded chart font", zap.String("path", expanded))
			return
		}
		logging.LogWarn("No TTF font found, using built-in bitmap face", zap.Int("paths_checked", len(fontPaths)))
	})
	return fontPath
}

// faceFor returns a face of the given point size. The bitmap fallback has a
// single size, which keeps layout correct but flattens the type hierarchy.
func faceFor(points float64) font.Face {
	if p := resolveFont(); p != "" {
		if face, err := gg.LoadFontFace(p, points); err == nil {
			return face
		}
	}
	return basicfont.Face7x13
}
