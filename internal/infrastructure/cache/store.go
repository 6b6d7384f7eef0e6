package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/nkap/internal/domain/repository"
)

// Reasons for a cache miss, as reported by MissReason
const (
	ReasonMissing = "missing"
	ReasonCorrupt = "corrupt"
	ReasonExpired = "expired"
	ReasonIO      = "io"
)

// SnapshotStore owns the snapshot location and the freshness policy
type SnapshotStore struct {
	backend repository.SnapshotBackend
	ttl     time.Duration
	now     func() time.Time
}

// NewSnapshotStore creates a store over backend. A non-positive ttl selects DefaultTTL.
func NewSnapshotStore(backend repository.SnapshotBackend, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &SnapshotStore{
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for stamping and expiry
func (s *SnapshotStore) WithClock(now func() time.Time) *SnapshotStore {
	s.now = now
	return s
}

// TTL returns the maximum age of a servable snapshot
func (s *SnapshotStore) TTL() time.Duration {
	return s.ttl
}

// Load returns the stored snapshot without checking its age
func (s *SnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := s.backend.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return DecodeSnapshot(data)
}

// TryLoad decodes a fresh snapshot into dst. A missing, corrupt or expired
// snapshot all yield an error matching ErrCacheMiss.
func (s *SnapshotStore) TryLoad(ctx context.Context, dst interface{}) error {
	snapshot, err := s.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheMiss, err)
	}

	if err := snapshot.UnwrapAt(dst, s.ttl, s.now()); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheMiss, err)
	}
	return nil
}

// Store snapshots data at the current time and persists it
func (s *SnapshotStore) Store(ctx context.Context, data interface{}) error {
	snapshot, err := newSnapshotAt(data, s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}

	encoded, err := snapshot.Encode()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}

	if err := s.backend.Write(ctx, encoded); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrCacheWrite, ErrIO, err)
	}
	return nil
}

// Close closes the underlying backend
func (s *SnapshotStore) Close() error {
	return s.backend.Close()
}

// MissReason classifies a TryLoad error for logs and metrics
func MissReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrSnapshotNotFound):
		return ReasonMissing
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	case errors.Is(err, ErrSerialization):
		return ReasonCorrupt
	default:
		return ReasonIO
	}
}
