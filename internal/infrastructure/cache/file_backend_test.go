package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, ".currencies")
	backend := NewFileBackend(path)
	assert.Equal(t, path, backend.Path())

	require.NoError(t, backend.Write(ctx, []byte("one")))
	require.NoError(t, backend.Write(ctx, []byte("two")))

	data, err := backend.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)

	// No temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	assert.NoError(t, backend.Close())
}

func TestFileBackendDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, NewFileBackend("").Path())
}
