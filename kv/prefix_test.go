package kv_test

import (
	"bytes"
	"testing"

	"github.com/strata-kv/strata/inmem"
	"github.com/strata-kv/strata/kv"
)

func TestPrefixIsolation(t *testing.T) {
	store := inmem.NewKVStore()

	sub0 := store.Sub([]byte{0})
	sub1 := store.Sub([]byte{1})

	if err := sub0.Put([]byte("k"), []byte("zero")); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := sub1.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected sibling sub-store to be empty, got %q", got)
	}

	// The parent must not see the key under its raw form either.
	got, err = store.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected parent key space to be empty, got %q", got)
	}
}

// Distinct paths must never collide, even when one raw segment is a
// byte-level prefix of the other.
func TestPrefixAmbiguousSegments(t *testing.T) {
	store := inmem.NewKVStore()

	joined := store.Sub([]byte("ab"))
	nested := store.Sub([]byte("a")).Sub([]byte("b"))

	if err := joined.Put(nil, []byte("joined")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := nested.Put(nil, []byte("nested")); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := joined.Get(nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("joined")) {
		t.Fatalf("sub(ab) = %q, want %q", got, "joined")
	}

	got, err = nested.Get(nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("nested")) {
		t.Fatalf("sub(a).sub(b) = %q, want %q", got, "nested")
	}
}

// sub(p1).sub(p2) addresses the same keys as any other view built from the
// same path, regardless of which handle wrote them.
func TestPrefixComposition(t *testing.T) {
	store := inmem.NewKVStore()

	if err := store.Sub([]byte("p1")).Sub([]byte("p2")).Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Sub([]byte("p1")).Sub([]byte("p2")).Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("v")) {
		t.Fatalf("got %q, want %q", got, "v")
	}

	// A view one level up sees the same key under the remaining segment's
	// namespace, not under the raw key.
	got, err = store.Sub([]byte("p1")).Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected raw key to be absent one level up, got %q", got)
	}
}

func TestPrefixDelete(t *testing.T) {
	store := inmem.NewKVStore()
	sub := store.Sub([]byte{7})

	if err := sub.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := sub.Delete([]byte("k")); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := sub.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected key to be deleted, got %q", got)
	}

	// Deleting an absent key is a no-op.
	if err := sub.Delete([]byte("missing")); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestPrefixDoesNotTouchUnrelatedKeys(t *testing.T) {
	store := inmem.NewKVStore()
	if err := store.Put([]byte("unrelated"), []byte("data")); err != nil {
		t.Fatalf("put: %v", err)
	}

	var sub kv.Store = store.Sub([]byte("unrel"))
	got, err := sub.Get([]byte("ated"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("sub-store leaked into parent's raw keys: %q", got)
	}
}
