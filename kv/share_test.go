package kv_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strata-kv/strata/inmem"
	"github.com/strata-kv/strata/kv"
)

func TestSharedVisibility(t *testing.T) {
	store := kv.Share(inmem.NewKVStore())
	share0 := store.Clone()
	share1 := store.Clone()

	require.NoError(t, share0.Put([]byte{123}, []byte{5}))

	for _, s := range []*kv.Shared{store, share0, share1} {
		v, err := s.Get([]byte{123})
		require.NoError(t, err)
		require.Equal(t, []byte{5}, v)
	}

	require.NoError(t, store.Put([]byte{123}, []byte{6}))

	for _, s := range []*kv.Shared{store, share0, share1} {
		v, err := s.Get([]byte{123})
		require.NoError(t, err)
		require.Equal(t, []byte{6}, v)
	}
}

func TestSharedSubRoutesThroughHandle(t *testing.T) {
	store := kv.Share(inmem.NewKVStore())
	clone := store.Clone()

	require.NoError(t, store.Sub([]byte{0}).Put([]byte("k"), []byte("v")))

	v, err := clone.Sub([]byte{0}).Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

// hookStore lets a test call back into a shared handle from within one of
// the handle's own in-flight operations.
type hookStore struct {
	kv.Store
	onGet func()
}

func (h *hookStore) Get(key []byte) ([]byte, error) {
	if h.onGet != nil {
		h.onGet()
	}
	return h.Store.Get(key)
}

func TestSharedReentrancyPanics(t *testing.T) {
	hook := &hookStore{Store: inmem.NewKVStore()}
	store := kv.Share(hook)
	clone := store.Clone()

	hook.onGet = func() {
		// Reentering via a clone while the original call is in flight.
		_, _ = clone.Get([]byte("inner"))
	}

	require.Panics(t, func() {
		_, _ = store.Get([]byte("outer"))
	})
}

// closerStore records whether the wrapped store was released.
type closerStore struct {
	kv.Store
	closed bool
}

func (c *closerStore) Close() error {
	c.closed = true
	return nil
}

func TestSharedCloseReleasesLastHandle(t *testing.T) {
	inner := &closerStore{Store: inmem.NewKVStore()}
	store := kv.Share(inner)
	clone := store.Clone()

	require.NoError(t, store.Close())
	require.False(t, inner.closed, "store must stay open while a clone remains")

	v, err := clone.Get([]byte("k"))
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, clone.Close())
	require.True(t, inner.closed, "closing the last handle must release the store")

	require.Panics(t, func() {
		_, _ = clone.Get([]byte("k"))
	})
}
