package db

import (
	"context"

	"github.com/damon-houk/nkap/internal/domain/repository"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisSnapshotBackend stores the snapshot under a single Redis key. The key
// has no Redis-side expiry; freshness is decided from the snapshot timestamp.
type RedisSnapshotBackend struct {
	client redis.UniversalClient
	key    string
}

// NewRedisSnapshotBackend uses an existing client
func NewRedisSnapshotBackend(client redis.UniversalClient, key string) *RedisSnapshotBackend {
	return &RedisSnapshotBackend{client: client, key: key}
}

// OpenRedisSnapshotBackend connects with options and checks the connection
func OpenRedisSnapshotBackend(ctx context.Context, options *redis.Options, key string) (*RedisSnapshotBackend, error) {
	const op = "db.OpenRedisSnapshotBackend"

	client := redis.NewClient(options)

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, op)
	}

	return NewRedisSnapshotBackend(client, key), nil
}

// Read returns the stored snapshot bytes
func (b *RedisSnapshotBackend) Read(ctx context.Context) ([]byte, error) {
	const op = "db.RedisSnapshotBackend.Read"

	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errors.Wrap(repository.ErrSnapshotNotFound, op)
	}

	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	return data, nil
}

// Write replaces the stored snapshot bytes
func (b *RedisSnapshotBackend) Write(ctx context.Context, data []byte) error {
	const op = "db.RedisSnapshotBackend.Write"

	return errors.Wrap(b.client.Set(ctx, b.key, data, 0).Err(), op)
}

// Close closes the client
func (b *RedisSnapshotBackend) Close() error {
	return errors.Wrap(b.client.Close(), "db.RedisSnapshotBackend.Close")
}
