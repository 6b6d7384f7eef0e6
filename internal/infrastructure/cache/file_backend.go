package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/damon-houk/nkap/internal/domain/repository"
)

// FileBackend keeps the snapshot in a single file
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for path. An empty path selects DefaultPath.
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultPath
	}
	return &FileBackend{path: path}
}

// Path returns the snapshot file location
func (b *FileBackend) Path() string {
	return b.path
}

// Read returns the file contents
func (b *FileBackend) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", repository.ErrSnapshotNotFound, b.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read the cache: %w", err)
	}
	return data, nil
}

// Write replaces the file. Data goes to a temporary file in the same
// directory first and is renamed over the target.
func (b *FileBackend) Write(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write the cache: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write the cache: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write the cache: %w", err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write the cache: %w", err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write the cache: %w", err)
	}
	return nil
}

// Close is a no-op
func (b *FileBackend) Close() error {
	return nil
}
