// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leveldb

import (
	"errors"
	"fmt"

	"github.com/ethersphere/payadjuster/pkg/logging"
	"github.com/ethersphere/payadjuster/pkg/storage"
	"github.com/syndtr/goleveldb/leveldb"
	ldberr "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	ldbs "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var _ storage.StateStorer = (*Store)(nil)

// Options for the LevelDB state store.
type Options struct {
	Logger logging.Logger
	// NoSync leaves flushing writes to disk to the operating system.
	// Every Put and Delete is synced otherwise.
	NoSync bool
}

// Store keeps state in LevelDB.
type Store struct {
	db     *leveldb.DB
	wo     *opt.WriteOptions
	logger logging.Logger
}

// New opens the state store in the directory at path, recovering it if
// the database is corrupted. An empty path opens a store that lives only
// in memory.
func New(path string, o Options) (*Store, error) {
	logger := o.Logger
	if logger == nil {
		logger = logging.Noop()
	}

	db, err := open(path, logger)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		wo:     &opt.WriteOptions{Sync: !o.NoSync && path != ""},
		logger: logger,
	}, nil
}

func open(path string, logger logging.Logger) (*leveldb.DB, error) {
	if path == "" {
		return leveldb.Open(ldbs.NewMemStorage(), nil)
	}

	db, err := leveldb.OpenFile(path, nil)
	if err == nil {
		return db, nil
	}
	if !ldberr.IsCorrupted(err) {
		return nil, fmt.Errorf("statestore %s: %w", path, err)
	}

	logger.Warningf("statestore %s corrupted: %v, attempting recovery", path, err)
	if db, err = leveldb.RecoverFile(path, nil); err != nil {
		return nil, fmt.Errorf("statestore %s recovery: %w", path, err)
	}
	logger.Warningf("statestore %s recovered", path)
	return db, nil
}

// Get decodes the value stored under key into i, or returns
// storage.ErrNotFound.
func (s *Store) Get(key string, i interface{}) error {
	data, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return storage.ErrNotFound
		}
		return err
	}
	return storage.Unmarshal(data, i)
}

func (s *Store) Put(key string, i interface{}) error {
	data, err := storage.Marshal(i)
	if err != nil {
		return fmt.Errorf("statestore put %s: %w", key, err)
	}
	return s.db.Put([]byte(key), data, s.wo)
}

// Delete removes the value under key. Deleting a missing key is not an
// error.
func (s *Store) Delete(key string) error {
	return s.db.Delete([]byte(key), s.wo)
}

// Iterate calls iterFunc for every key with prefix, in key order. The
// slices passed to iterFunc are copies.
func (s *Store) Iterate(prefix string, iterFunc storage.StateIterFunc) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	for iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		value := append([]byte(nil), iter.Value()...)
		stop, err := iterFunc(key, value)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return iter.Error()
}

func (s *Store) Close() error {
	return s.db.Close()
}
