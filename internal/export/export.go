// Package export persists finished drawings, as PNG files on disk or as
// image data on the system clipboard.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/render"
)

// DefaultBaseName is the filename used when no output path is configured.
const DefaultBaseName = "drawing.png"

// Options controls where and how a drawing is written.
type Options struct {
	// Path is the output file. When empty the drawing is written to
	// DefaultBaseName inside Dir.
	Path string
	// Dir is the directory used when Path is empty. Empty means the current
	// directory.
	Dir string
	// Matte, when non-nil, composites the drawing onto a shadowed matte
	// before encoding.
	Matte *render.MatteOptions
}

// ResolvePath returns the file the drawing would be written to.
func (o Options) ResolvePath() string {
	if o.Path != "" {
		return o.Path
	}
	return filepath.Join(o.Dir, DefaultBaseName)
}

// Save encodes img as PNG at the resolved path and returns that path.
func Save(img *image.RGBA, opts Options) (string, error) {
	if img == nil {
		return "", fmt.Errorf("export: nil image")
	}
	if opts.Matte != nil {
		img = render.Matte(img, *opts.Matte)
	}
	path := opts.ResolvePath()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	return path, nil
}

// SaveBytes writes already-encoded PNG data at the resolved path.
func SaveBytes(data []byte, opts Options) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("export: empty image data")
	}
	path := opts.ResolvePath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	return path, nil
}

// Copy publishes img to the system clipboard, matted when requested.
func Copy(img *image.RGBA, matte *render.MatteOptions) error {
	if img == nil {
		return fmt.Errorf("export: nil image")
	}
	if matte != nil {
		img = render.Matte(img, *matte)
	}
	return clipboard.WriteImage(img)
}
