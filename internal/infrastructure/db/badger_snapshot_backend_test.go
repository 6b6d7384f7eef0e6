package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/damon-houk/nkap/internal/domain/entity"
	"github.com/damon-houk/nkap/internal/domain/repository"
	"github.com/damon-houk/nkap/internal/infrastructure/cache"
	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerSnapshotBackend(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "badger")

	backend, err := OpenBadgerSnapshotBackend(dir, "nkap:test")
	require.NoError(t, err)

	t.Run("Empty database", func(t *testing.T) {
		_, err := backend.Read(ctx)
		assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
	})

	t.Run("Write and read", func(t *testing.T) {
		require.NoError(t, backend.Write(ctx, []byte("first")))
		require.NoError(t, backend.Write(ctx, []byte("second")))

		data, err := backend.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), data)
	})

	t.Run("Behind a snapshot store", func(t *testing.T) {
		store := cache.NewSnapshotStore(backend, cache.DefaultTTL)
		table := entity.RateTable{"USD": 1.0, "XAF": 500.0}

		require.NoError(t, store.Store(ctx, table))

		var loaded entity.RateTable
		require.NoError(t, store.TryLoad(ctx, &loaded))
		assert.Equal(t, table, loaded)
	})

	require.NoError(t, backend.Close())

	// The snapshot survives reopening the database
	reopened, err := OpenBadgerSnapshotBackend(dir, "nkap:test")
	require.NoError(t, err)
	defer reopened.Close()

	var loaded entity.RateTable
	require.NoError(t, cache.NewSnapshotStore(reopened, cache.DefaultTTL).TryLoad(ctx, &loaded))
	assert.Equal(t, 500.0, loaded["XAF"])
}

func TestBadgerSnapshotBackendSharedDB(t *testing.T) {
	badgerDB, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	defer badgerDB.Close()

	backend := NewBadgerSnapshotBackend(badgerDB, "nkap:shared")
	require.NoError(t, backend.Write(context.Background(), []byte("data")))

	// Closing a borrowed database is left to its owner
	require.NoError(t, backend.Close())
	assert.False(t, badgerDB.IsClosed())
}
