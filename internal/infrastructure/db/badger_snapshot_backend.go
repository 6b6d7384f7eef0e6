package db

import (
	"context"
	"os"

	"github.com/damon-houk/nkap/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

// BadgerSnapshotBackend stores the snapshot under a single BadgerDB key
type BadgerSnapshotBackend struct {
	db    *badger.DB
	key   []byte
	owned bool
}

// NewBadgerSnapshotBackend uses an already open database. Close leaves db open.
func NewBadgerSnapshotBackend(db *badger.DB, key string) *BadgerSnapshotBackend {
	return &BadgerSnapshotBackend{db: db, key: []byte(key)}
}

// OpenBadgerSnapshotBackend opens (or creates) a database in dir. Close closes it.
func OpenBadgerSnapshotBackend(dir, key string) (*BadgerSnapshotBackend, error) {
	const op = "db.OpenBadgerSnapshotBackend"

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, op)
	}

	badgerOpts := badger.DefaultOptions(dir).WithLogger(nil) // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	backend := NewBadgerSnapshotBackend(badgerDB, key)
	backend.owned = true
	return backend, nil
}

// Read returns the stored snapshot bytes
func (b *BadgerSnapshotBackend) Read(_ context.Context) ([]byte, error) {
	const op = "db.BadgerSnapshotBackend.Read"

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key)
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.Wrap(repository.ErrSnapshotNotFound, op)
	}

	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	return data, nil
}

// Write replaces the stored snapshot bytes
func (b *BadgerSnapshotBackend) Write(_ context.Context, data []byte) error {
	const op = "db.BadgerSnapshotBackend.Write"

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key, data)
	})

	return errors.Wrap(err, op)
}

// Close closes the database if this backend opened it
func (b *BadgerSnapshotBackend) Close() error {
	if !b.owned {
		return nil
	}
	return errors.Wrap(b.db.Close(), "db.BadgerSnapshotBackend.Close")
}
