// Package state converts between the persisted encoding of a record and
// its live in-memory form, mapping arbitrarily nested records onto the
// flat key space of a kv.Store.
//
// A record is materialized with Create, which binds each field to its own
// positional sub-store, mutated freely while held, and consumed back into
// an encoding with Flush, which writes each field's bytes under the same
// positional sub-store it was created from.
package state

import (
	"fmt"

	"github.com/strata-kv/strata/kit/errors"
	"github.com/strata-kv/strata/kv"
)

// Encoding is the persisted representation of a value, independent of any
// store binding: Bytes for a leaf, Tuple for a compound record. A nil
// Encoding stands for state that has never been persisted; values decode
// it as their zero form.
type Encoding interface {
	encoding()
}

// Bytes is the encoding of a leaf value. The byte format belongs to the
// leaf type; this layer only routes it to the correct sub-store path.
type Bytes []byte

func (Bytes) encoding() {}

// Tuple is the encoding of a compound record: one component per field, in
// field declaration order. The order is part of the on-disk contract,
// since sub-store addresses are purely positional.
type Tuple []Encoding

func (Tuple) encoding() {}

// Value is implemented by types that participate in materialization.
//
// Create deterministically reconstructs the value from its encoding and
// binds it to store; the binding is what lets Flush later write back to
// the correct path. Flush consumes the value, writes its bytes through
// the bound store, and returns the encoding to persist; using a value
// after flushing it fails with an EInvalid-coded error.
type Value interface {
	Create(store kv.Store, data Encoding) error
	Flush() (Encoding, error)
}

// leafBytes extracts the byte form of a leaf encoding. A nil encoding is
// permitted and yields nil bytes.
func leafBytes(op string, data Encoding) ([]byte, error) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case Bytes:
		return d, nil
	default:
		return nil, &errors.Error{
			Code: errors.EInvalid,
			Op:   op,
			Msg:  fmt.Sprintf("expected leaf bytes, got %T", data),
		}
	}
}
