package present

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
)

// FileSaver writes each frame as a PNG file named by Frame.FileName.
type FileSaver struct {
	dir    string
	logger *slog.Logger
}

// NewFileSaver creates a FileSaver writing into dir, which is created on
// the first frame. An empty dir means the current directory.
func NewFileSaver(dir string, logger *slog.Logger) *FileSaver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSaver{dir: dir, logger: logger}
}

// Present implements Presenter.
func (s *FileSaver) Present(f Frame) (err error) {
	if f.Image == nil {
		return fmt.Errorf("frame %s has no image", f.Title())
	}
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("create frame directory: %w", err)
		}
	}

	path := filepath.Join(s.dir, f.FileName())
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close frame file: %w", cerr)
		}
	}()

	if err := png.Encode(file, f.Image); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	s.logger.Debug("frame saved", "path", path, "call", f.CallNo)
	return nil
}
