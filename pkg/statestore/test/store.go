// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package test holds the conformance tests every StateStorer implementation
// must pass.
package test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ethersphere/payadjuster/pkg/storage"
)

const (
	key1 = "key1" // stores the serialized type
	key2 = "key2" // stores a json array
)

var (
	value1 = &Serializing{value: "value1"}
	value2 = []string{"a", "b", "c"}
)

type Serializing struct {
	value           string
	marshalCalled   bool
	unmarshalCalled bool
}

func (st *Serializing) MarshalBinary() (data []byte, err error) {
	d := []byte(st.value)
	st.marshalCalled = true

	return d, nil
}

func (st *Serializing) UnmarshalBinary(data []byte) (err error) {
	st.value = string(data)
	st.unmarshalCalled = true
	return nil
}

// Run runs the conformance tests against the stores created by f.
func Run(t *testing.T, f func(t *testing.T) storage.StateStorer) {
	t.Helper()

	t.Run("put and get", func(t *testing.T) {
		store := f(t)
		insertValues(t, store)
		testPersistedValues(t, store)
	})

	t.Run("iterate", func(t *testing.T) {
		store := f(t)
		insertValues(t, store)
		testStoreIterator(t, store)
	})

	t.Run("delete", func(t *testing.T) {
		store := f(t)
		insertValues(t, store)
		if err := store.Delete(key1); err != nil {
			t.Fatal(err)
		}
		var s Serializing
		if err := store.Get(key1, &s); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got error %v, want %v", err, storage.ErrNotFound)
		}
	})
}

// RunPersist checks that values survive closing and reopening a store in
// the same directory.
func RunPersist(t *testing.T, f func(t *testing.T, dir string) storage.StateStorer) {
	t.Helper()

	dir := t.TempDir()

	store := f(t, dir)
	insertValues(t, store)
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store = f(t, dir)
	defer store.Close()
	testPersistedValues(t, store)
}

func insertValues(t *testing.T, store storage.StateStorer) {
	t.Helper()

	if err := store.Put(key1, value1); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(key2, value2); err != nil {
		t.Fatal(err)
	}
	if err := store.Put("other_key", "other"); err != nil {
		t.Fatal(err)
	}
}

func testPersistedValues(t *testing.T, store storage.StateStorer) {
	t.Helper()

	v := &Serializing{}
	if err := store.Get(key1, v); err != nil {
		t.Fatal(err)
	}
	if !v.unmarshalCalled {
		t.Fatal("unmarshal not called")
	}
	if v.value != value1.value {
		t.Fatalf("expected persisted to be %s but got %s", value1.value, v.value)
	}

	s := []string{}
	if err := store.Get(key2, &s); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s, value2) {
		t.Fatalf("expected persisted to be %v but got %v", value2, s)
	}

	if err := store.Get("missing", &s); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got error %v, want %v", err, storage.ErrNotFound)
	}
}

func testStoreIterator(t *testing.T, store storage.StateStorer) {
	t.Helper()

	var keys []string
	err := store.Iterate("key", func(key, value []byte) (stop bool, err error) {
		keys = append(keys, string(key))
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(keys, ","); got != "key1,key2" {
		t.Fatalf("got keys %s, want key1,key2", got)
	}

	var count int
	err = store.Iterate("key", func(key, value []byte) (stop bool, err error) {
		count++
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("iteration did not stop, visited %d", count)
	}
}
