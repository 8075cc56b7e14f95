// Package kv defines the storage capability the rest of strata is built
// on: a flat byte-key/byte-value store that can be partitioned into
// prefix-addressed sub-stores and shared between multiple owners within a
// single goroutine.
package kv

// Store is an interface for a generic key value store. It is the minimal
// capability a backend must provide; everything else in this module
// (partitioning, sharing, materialization) is derived from it.
//
// The model is single-threaded and synchronous: every call runs to
// completion before returning, and no call blocks on anything at this
// layer. Backends performing real I/O surface their failures through the
// returned errors verbatim.
type Store interface {
	// Get returns the value stored at exactly key, or nil if the key is
	// absent. A missing key is not an error.
	Get(key []byte) ([]byte, error)
	// Put upserts the value at key, silently overwriting any previous value.
	Put(key, value []byte) error
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key []byte) error
	// Sub returns a view of the store restricted to keys under the given
	// path segment. Creating a view is cheap and copies no data; it is
	// called once per field of every compound value on each create/flush
	// cycle.
	Sub(segment []byte) Store
}

// Closer is implemented by backends that hold external resources, such as
// an open database file.
type Closer interface {
	Close() error
}
