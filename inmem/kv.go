// Package inmem provides an in-memory kv.Store backed by a btree, suitable
// for tests and for state that never needs to outlive the process.
package inmem

import (
	"bytes"
	"sync"

	"github.com/google/btree"

	"github.com/strata-kv/strata/kv"
)

// KVStore is an in memory btree backed kv.Store.
type KVStore struct {
	mu    sync.RWMutex
	btree *btree.BTree
}

var _ kv.Store = (*KVStore)(nil)

// NewKVStore creates an instance of a KVStore.
func NewKVStore() *KVStore {
	return &KVStore{
		btree: btree.New(2),
	}
}

type item struct {
	key   []byte
	value []byte
}

// Less is used to implement btree.Item.
func (i *item) Less(b btree.Item) bool {
	j, ok := b.(*item)
	if !ok {
		return false
	}

	return bytes.Compare(i.key, j.key) < 0
}

// Get retrieves the value at the provided key, or nil if the key is absent.
func (s *KVStore) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.btree.Get(&item{key: key})
	if i == nil {
		return nil, nil
	}

	return i.(*item).value, nil
}

// Put sets the key value pair provided, overwriting any previous value.
func (s *KVStore) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := append([]byte{}, key...)
	v := append([]byte{}, value...)
	_ = s.btree.ReplaceOrInsert(&item{key: k, value: v})
	return nil
}

// Delete removes the key provided. Deleting an absent key is a no-op.
func (s *KVStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.btree.Delete(&item{key: key})
	return nil
}

// Sub returns a view of the store under the provided path segment.
func (s *KVStore) Sub(segment []byte) kv.Store {
	return kv.NewPrefix(s, segment)
}

// Len returns the number of keys held, across all sub-store prefixes.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.btree.Len()
}

// ForEach visits every key value pair in ascending key order, stopping
// early if fn returns false. Used by tests and tooling to observe layout.
func (s *KVStore) ForEach(fn func(key, value []byte) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.btree.Ascend(func(i btree.Item) bool {
		j := i.(*item)
		return fn(j.key, j.value)
	})
}
