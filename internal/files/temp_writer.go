package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempWriter stores encoded thumbnails under a process temp directory.
// Files are never removed here; cleanup belongs to the host or the OS.
type TempWriter struct {
	dir string
	ext string
}

func NewTempWriter(dir, ext string) (*TempWriter, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve temp dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	return &TempWriter{dir: abs, ext: ext}, nil
}

func (w *TempWriter) Dir() string {
	return w.dir
}

// Write stores data under a fresh random name and returns the absolute path.
func (w *TempWriter) Write(data []byte) (string, error) {
	path := filepath.Join(w.dir, uuid.NewString()+w.ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return path, nil
}

// Check verifies the directory is still usable before a retrieval starts.
func (w *TempWriter) Check() error {
	fi, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("temp dir %s is not a directory", w.dir)
	}
	return nil
}
