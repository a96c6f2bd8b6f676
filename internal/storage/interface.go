// Package storage provides artifact blob storage backends. The
// artifact index in the database stays authoritative; backends only
// hold bytes at deterministic paths.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
)

// ErrNotExist is returned when the requested object is missing from the
// backing store.
var ErrNotExist = errors.New("object does not exist")

// Backend is a blob store for artifact content.
type Backend interface {
	// Write stores content at the given path, replacing any existing
	// object.
	Write(ctx context.Context, objectPath string, content []byte) error
	// Open returns a reader for the object at the given path. Returns
	// ErrNotExist if the object is missing.
	Open(ctx context.Context, objectPath string) (io.ReadCloser, error)
	// Remove deletes the object at the given path. Removing a missing
	// object is not an error.
	Remove(ctx context.Context, objectPath string) error
	// Exists reports whether an object is present at the given path.
	Exists(ctx context.Context, objectPath string) (bool, error)
}

// ArtifactPath derives the storage location for an artifact from its
// product, version, and filename. Each element is reduced to its base
// name so user-supplied values cannot traverse outside the store.
func ArtifactPath(productID, version, filename string) string {
	return path.Join(sanitize(productID), sanitize(version), sanitize(filename))
}

func sanitize(s string) string {
	base := path.Base(path.Clean("/" + s))
	if base == "/" || base == "." {
		return "_"
	}
	return base
}
