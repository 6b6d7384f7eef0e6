package cache

import (
	"context"
	"sync"

	"github.com/damon-houk/nkap/internal/domain/repository"
)

// MemoryBackend keeps the snapshot bytes in process memory. It does not
// survive a restart.
type MemoryBackend struct {
	data   []byte
	stored bool
	writes int
	mutex  sync.RWMutex
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Read returns a copy of the stored bytes
func (b *MemoryBackend) Read(_ context.Context) ([]byte, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if !b.stored {
		return nil, repository.ErrSnapshotNotFound
	}

	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, nil
}

// Write replaces the stored bytes
func (b *MemoryBackend) Write(_ context.Context, data []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.data = make([]byte, len(data))
	copy(b.data, data)
	b.stored = true
	b.writes++
	return nil
}

// Writes returns how many times Write was called
func (b *MemoryBackend) Writes() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.writes
}

// Clear drops the stored snapshot
func (b *MemoryBackend) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.data = nil
	b.stored = false
}

// Close is a no-op
func (b *MemoryBackend) Close() error {
	return nil
}
