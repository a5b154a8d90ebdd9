package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore persists connector state on disk so a restarted process
// reconnects to the same wallet.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a store at path. An empty path opens
// an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	opts.NumVersionsToKeep = 1

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("couldn't open badger store at %q: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(key string) (string, bool, error) {
	var (
		value []byte
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("couldn't read %q: %w", key, err)
	}
	return string(value), found, nil
}

func (s *BadgerStore) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("couldn't write %q: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Remove(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("couldn't remove %q: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
