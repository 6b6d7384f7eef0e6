package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/damon-houk/nkap/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSnapshotBackend(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}

	ctx := context.Background()
	key := "nkap:test:" + uuid.New().String()

	backend, err := OpenRedisSnapshotBackend(ctx, &redis.Options{Addr: addr}, key)
	require.NoError(t, err)
	defer backend.Close()
	defer backend.client.Del(ctx, key)

	_, err = backend.Read(ctx)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)

	require.NoError(t, backend.Write(ctx, []byte("snapshot")))

	data, err := backend.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot"), data)
}

func TestOpenRedisSnapshotBackendUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping network test in short mode")
	}

	_, err := OpenRedisSnapshotBackend(context.Background(), &redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}, "nkap:test")
	assert.Error(t, err)
}
