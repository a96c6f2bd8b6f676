package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalBackend stores artifact bytes on the local filesystem under a
// root directory.
type LocalBackend struct {
	root string
}

// NewLocalBackend creates a local backend rooted at the given
// directory, creating it if necessary.
func NewLocalBackend(root string) (*LocalBackend, error) {
	if root == "" {
		return nil, errors.New("local backend: root is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalBackend{root: root}, nil
}

func (b *LocalBackend) fullPath(objectPath string) string {
	return filepath.Join(b.root, filepath.FromSlash(objectPath))
}

// Write stores content at the given path, creating parent directories
// as needed.
func (b *LocalBackend) Write(_ context.Context, objectPath string, content []byte) error {
	full := b.fullPath(objectPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(full, content, 0o640); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Open returns a reader for the object at the given path.
func (b *LocalBackend) Open(_ context.Context, objectPath string) (io.ReadCloser, error) {
	f, err := os.Open(b.fullPath(objectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}

// Remove deletes the object at the given path.
func (b *LocalBackend) Remove(_ context.Context, objectPath string) error {
	err := os.Remove(b.fullPath(objectPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// Exists reports whether an object is present at the given path.
func (b *LocalBackend) Exists(_ context.Context, objectPath string) (bool, error) {
	_, err := os.Stat(b.fullPath(objectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat artifact: %w", err)
	}
	return true, nil
}
