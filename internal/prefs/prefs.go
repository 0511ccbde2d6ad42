// IntentKit - Explicit Intent Launcher
// Copyright (C) 2026 Cloud Exit B.V.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package prefs persists the launch form in a BadgerDB key-value store.
package prefs

import (
	"errors"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("key not found")

// Options configures a Store.
type Options struct {
	Dir      string // on-disk directory (ignored when InMemory is true)
	InMemory bool   // use in-memory storage (for tests)
	ReadOnly bool   // open in read-only mode (no directory lock acquired)
}

// Store wraps a Badger database.
type Store struct {
	db *badger.DB
}

// Open creates or opens a preference store. A WAL left incomplete by an
// unclean exit is truncated by a short write-mode open before retrying.
func Open(opts Options) (*Store, error) {
	bopts := badgerOptions(opts)

	db, err := badger.Open(bopts)
	if err != nil && !opts.InMemory && needsTruncation(err) {
		// The WAL has incomplete entries. A write-mode open lets BadgerDB
		// truncate it, then the requested mode is retried.
		rdb, rerr := badger.Open(badgerOptions(Options{Dir: opts.Dir}))
		if rerr != nil {
			return nil, err // keep the original error if recovery fails
		}
		if cerr := rdb.Close(); cerr != nil {
			return nil, cerr
		}
		db, err = badger.Open(bopts)
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	// Reclaim value log space left by previous runs.
	if !opts.ReadOnly && !opts.InMemory {
		s.runGC()
	}
	return s, nil
}

// badgerOptions builds BadgerDB options from our Options.
func badgerOptions(opts Options) badger.Options {
	bopts := badger.DefaultOptions(opts.Dir)
	bopts.Logger = nil // suppress badger logs
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
		bopts.Logger = nil
	}
	if opts.ReadOnly {
		bopts = bopts.WithReadOnly(true).WithBypassLockGuard(true)
	}
	return bopts
}

// needsTruncation reports whether an open error asks for WAL truncation.
func needsTruncation(err error) bool {
	return strings.Contains(err.Error(), "Log truncate required") ||
		strings.Contains(err.Error(), "MANIFEST has unsupported version")
}

// IsLocked reports whether err means another process holds the store.
func IsLocked(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Cannot acquire directory lock")
}

// Get returns the stored string for key. ok is false when the key was never
// written, which is distinct from a stored empty string.
func (s *Store) Get(key string) (string, bool, error) {
	val, err := s.GetBytes([]byte(key))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(val), true, nil
}

// Set stores a string value.
func (s *Store) Set(key, value string) error {
	return s.SetBytes([]byte(key), []byte(value))
}

// GetBytes retrieves the raw value for a key. Returns ErrNotFound if the key does not exist.
func (s *Store) GetBytes(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

// SetBytes stores a raw key-value pair.
func (s *Store) SetBytes(key, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a key.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Iterate calls fn for every key with the given prefix.
// Iteration stops early if fn returns a non-nil error.
func (s *Store) Iterate(prefix string, fn func(key, value string) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(string(k), string(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close runs value log GC and then closes the underlying database.
func (s *Store) Close() error {
	s.runGC()
	return s.db.Close()
}

// runGC collects until Badger reports nothing left to reclaim. The 0.5
// discard ratio rewrites a vlog file once half of it is reclaimable.
func (s *Store) runGC() {
	for {
		if s.db.RunValueLogGC(0.5) != nil {
			return
		}
	}
}
