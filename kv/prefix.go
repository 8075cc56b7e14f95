package kv

import "encoding/binary"

// Prefix is a view of a parent store restricted to keys under a path
// prefix. It holds a reference to the parent plus the encoded prefix; no
// parent data is copied or materialized.
//
// Each path segment is written as its uvarint length followed by the
// segment bytes, so distinct paths can never collide even when one raw
// segment is a byte-level prefix of another. Because a view only ever
// appends encoded segments, Sub composes: s.Sub(a).Sub(b) addresses the
// same keys as a single view with path [a, b].
type Prefix struct {
	parent Store
	prefix []byte
}

var _ Store = (*Prefix)(nil)

// NewPrefix returns a view of parent restricted to keys under segment.
func NewPrefix(parent Store, segment []byte) *Prefix {
	return &Prefix{
		parent: parent,
		prefix: appendSegment(nil, segment),
	}
}

// appendSegment appends the unambiguous encoding of one path segment to dst.
func appendSegment(dst, segment []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(segment)))
	return append(dst, segment...)
}

func (p *Prefix) key(key []byte) []byte {
	k := make([]byte, 0, len(p.prefix)+len(key))
	k = append(k, p.prefix...)
	return append(k, key...)
}

// Get returns the value stored at key within this view.
func (p *Prefix) Get(key []byte) ([]byte, error) {
	return p.parent.Get(p.key(key))
}

// Put sets the value at key within this view.
func (p *Prefix) Put(key, value []byte) error {
	return p.parent.Put(p.key(key), value)
}

// Delete removes key from this view.
func (p *Prefix) Delete(key []byte) error {
	return p.parent.Delete(p.key(key))
}

// Sub narrows the view by a further path segment. The new view addresses
// the parent directly with a concatenated prefix rather than stacking
// indirections.
func (p *Prefix) Sub(segment []byte) Store {
	return &Prefix{
		parent: p.parent,
		prefix: appendSegment(append([]byte{}, p.prefix...), segment),
	}
}
