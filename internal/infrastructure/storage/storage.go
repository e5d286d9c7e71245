// Package storage provides blob storage implementations for template and
// rendered document files.
package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when the requested key does not exist.
var ErrObjectNotFound = errors.New("storage: object not found")

// BlobStore abstracts the blob backend holding template files and
// rendered outputs.
type BlobStore interface {
	// Put stores data under key, overwriting any previous object
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get fetches the object stored under key
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error

	// Exists checks whether key holds an object
	Exists(ctx context.Context, key string) (bool, error)
}
