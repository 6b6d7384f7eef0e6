// Package cache persists a single timestamped snapshot of fetched data and
// decides whether it is still fresh enough to be served.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultPath is the snapshot file, relative to the working directory
	DefaultPath = ".currencies"
	// DefaultTTL follows the refresh cadence of the exchange rate API
	DefaultTTL = time.Hour
)

// Error kinds reported by the cache. Every TryLoad failure also matches
// ErrCacheMiss and every Store failure matches ErrCacheWrite.
var (
	ErrIO            = errors.New("cache io error")
	ErrSerialization = errors.New("cache serialization error")
	ErrExpired       = errors.New("the cache has expired")
	ErrCacheMiss     = errors.New("cache miss")
	ErrCacheWrite    = errors.New("cache write failed")
)

// Snapshot wraps serialized data with the time it was captured
type Snapshot struct {
	// Timestamp is in seconds since the Unix epoch
	Timestamp int64  `json:"timestamp"`
	Payload   string `json:"payload"`
}

// NewSnapshot serializes data and stamps it with the current time
func NewSnapshot(data interface{}) (*Snapshot, error) {
	return newSnapshotAt(data, time.Now())
}

func newSnapshotAt(data interface{}, now time.Time) (*Snapshot, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize payload: %w", ErrSerialization, err)
	}

	return &Snapshot{
		Timestamp: now.Unix(),
		Payload:   string(payload),
	}, nil
}

// Encode serializes the whole snapshot
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize snapshot: %w", ErrSerialization, err)
	}
	return data, nil
}

// DecodeSnapshot parses bytes produced by Encode
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: failed to decode snapshot: %w", ErrSerialization, err)
	}
	return &snapshot, nil
}

// Persist writes the snapshot to path, replacing any existing file
func (s *Snapshot) Persist(path string) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}

	if err := NewFileBackend(path).Write(context.Background(), data); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// LoadSnapshot reads a snapshot previously written with Persist
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := NewFileBackend(path).Read(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return DecodeSnapshot(data)
}

// IsExpired reports whether the snapshot is older than ttl
func (s *Snapshot) IsExpired(ttl time.Duration) bool {
	return s.IsExpiredAt(ttl, time.Now())
}

// IsExpiredAt reports whether the snapshot is older than ttl at the given time.
// Both sides are whole seconds since the Unix epoch.
func (s *Snapshot) IsExpiredAt(ttl time.Duration, now time.Time) bool {
	return now.Unix()-s.Timestamp > int64(ttl/time.Second)
}

// Unwrap decodes the payload into dst, which must be a pointer
func (s *Snapshot) Unwrap(dst interface{}, ttl time.Duration) error {
	return s.UnwrapAt(dst, ttl, time.Now())
}

// UnwrapAt is Unwrap evaluated at the given time. Expiry is checked before
// the payload is decoded.
func (s *Snapshot) UnwrapAt(dst interface{}, ttl time.Duration, now time.Time) error {
	if s.IsExpiredAt(ttl, now) {
		return ErrExpired
	}

	// A null payload would decode into a nil value without error
	if strings.TrimSpace(s.Payload) == "null" {
		return fmt.Errorf("%w: payload is null", ErrSerialization)
	}

	if err := json.Unmarshal([]byte(s.Payload), dst); err != nil {
		return fmt.Errorf("%w: payload does not match the expected type: %w", ErrSerialization, err)
	}
	return nil
}
