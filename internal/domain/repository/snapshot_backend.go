// Package repository internal/domain/repository/snapshot_backend.go
package repository

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by a backend that holds no snapshot yet
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotBackend stores the single encoded cache snapshot
type SnapshotBackend interface {
	// Read returns the stored bytes or ErrSnapshotNotFound
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored bytes
	Write(ctx context.Context, data []byte) error

	// Close releases the backend's resources
	Close() error
}
