package state

import (
	"encoding/binary"
	"fmt"

	"github.com/strata-kv/strata/kit/errors"
	"github.com/strata-kv/strata/kv"
)

// leaf carries the store binding and consumption state common to every
// primitive type.
type leaf struct {
	store   kv.Store
	flushed bool
}

func (l *leaf) bind(store kv.Store) {
	l.store = store
	l.flushed = false
}

// consume marks the leaf flushed, rejecting a second flush or a flush of a
// value that was never created from a store.
func (l *leaf) consume(op string) error {
	if l.store == nil {
		return &errors.Error{Code: errors.EInvalid, Op: op, Msg: "value is not bound to a store"}
	}
	if l.flushed {
		return &errors.Error{Code: errors.EInvalid, Op: op, Msg: "value already flushed"}
	}
	l.flushed = true
	return nil
}

// write persists the leaf bytes at the empty key of the bound sub-store
// and returns them as the encoding.
func (l *leaf) write(b []byte) (Encoding, error) {
	if err := l.store.Put(nil, b); err != nil {
		return nil, err
	}
	return Bytes(b), nil
}

func decodeErr(op string, want int, b []byte) error {
	return &errors.Error{
		Code: errors.EInvalid,
		Op:   op,
		Msg:  fmt.Sprintf("expected %d bytes, got %d", want, len(b)),
	}
}

// fixed decodes a fixed-width leaf encoding, treating absence as zero.
func fixed(op string, data Encoding, want int) ([]byte, error) {
	b, err := leafBytes(op, data)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	if len(b) != want {
		return nil, decodeErr(op, want, b)
	}
	return b, nil
}

// UInt64 is a materialized unsigned 64-bit integer, encoded big-endian.
type UInt64 struct {
	leaf
	value uint64
}

// Create binds the value to store and decodes data.
func (v *UInt64) Create(store kv.Store, data Encoding) error {
	b, err := fixed("state.UInt64.Create", data, 8)
	if err != nil {
		return err
	}
	v.value = 0
	if b != nil {
		v.value = binary.BigEndian.Uint64(b)
	}
	v.bind(store)
	return nil
}

// Flush consumes the value, writing its bytes through the bound store.
func (v *UInt64) Flush() (Encoding, error) {
	if err := v.consume("state.UInt64.Flush"); err != nil {
		return nil, err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v.value)
	return v.write(buf[:])
}

// Get returns the current value.
func (v *UInt64) Get() uint64 { return v.value }

// Set replaces the current value.
func (v *UInt64) Set(x uint64) { v.value = x }

// UInt32 is a materialized unsigned 32-bit integer, encoded big-endian.
type UInt32 struct {
	leaf
	value uint32
}

// Create binds the value to store and decodes data.
func (v *UInt32) Create(store kv.Store, data Encoding) error {
	b, err := fixed("state.UInt32.Create", data, 4)
	if err != nil {
		return err
	}
	v.value = 0
	if b != nil {
		v.value = binary.BigEndian.Uint32(b)
	}
	v.bind(store)
	return nil
}

// Flush consumes the value, writing its bytes through the bound store.
func (v *UInt32) Flush() (Encoding, error) {
	if err := v.consume("state.UInt32.Flush"); err != nil {
		return nil, err
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v.value)
	return v.write(buf[:])
}

// Get returns the current value.
func (v *UInt32) Get() uint32 { return v.value }

// Set replaces the current value.
func (v *UInt32) Set(x uint32) { v.value = x }

// Int64 is a materialized signed 64-bit integer, encoded big-endian
// two's complement.
type Int64 struct {
	leaf
	value int64
}

// Create binds the value to store and decodes data.
func (v *Int64) Create(store kv.Store, data Encoding) error {
	b, err := fixed("state.Int64.Create", data, 8)
	if err != nil {
		return err
	}
	v.value = 0
	if b != nil {
		v.value = int64(binary.BigEndian.Uint64(b))
	}
	v.bind(store)
	return nil
}

// Flush consumes the value, writing its bytes through the bound store.
func (v *Int64) Flush() (Encoding, error) {
	if err := v.consume("state.Int64.Flush"); err != nil {
		return nil, err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v.value))
	return v.write(buf[:])
}

// Get returns the current value.
func (v *Int64) Get() int64 { return v.value }

// Set replaces the current value.
func (v *Int64) Set(x int64) { v.value = x }

// Bool is a materialized boolean, encoded as a single 0 or 1 byte.
type Bool struct {
	leaf
	value bool
}

// Create binds the value to store and decodes data.
func (v *Bool) Create(store kv.Store, data Encoding) error {
	b, err := fixed("state.Bool.Create", data, 1)
	if err != nil {
		return err
	}
	v.value = false
	if b != nil {
		switch b[0] {
		case 0:
		case 1:
			v.value = true
		default:
			return &errors.Error{
				Code: errors.EInvalid,
				Op:   "state.Bool.Create",
				Msg:  fmt.Sprintf("expected 0 or 1, got %d", b[0]),
			}
		}
	}
	v.bind(store)
	return nil
}

// Flush consumes the value, writing its bytes through the bound store.
func (v *Bool) Flush() (Encoding, error) {
	if err := v.consume("state.Bool.Flush"); err != nil {
		return nil, err
	}
	b := []byte{0}
	if v.value {
		b[0] = 1
	}
	return v.write(b)
}

// Get returns the current value.
func (v *Bool) Get() bool { return v.value }

// Set replaces the current value.
func (v *Bool) Set(x bool) { v.value = x }

// String is a materialized string, encoded as its raw bytes.
type String struct {
	leaf
	value string
}

// Create binds the value to store and decodes data.
func (v *String) Create(store kv.Store, data Encoding) error {
	b, err := leafBytes("state.String.Create", data)
	if err != nil {
		return err
	}
	v.value = string(b)
	v.bind(store)
	return nil
}

// Flush consumes the value, writing its bytes through the bound store.
func (v *String) Flush() (Encoding, error) {
	if err := v.consume("state.String.Flush"); err != nil {
		return nil, err
	}
	return v.write([]byte(v.value))
}

// Get returns the current value.
func (v *String) Get() string { return v.value }

// Set replaces the current value.
func (v *String) Set(x string) { v.value = x }

// RawBytes is a materialized byte slice stored verbatim.
type RawBytes struct {
	leaf
	value []byte
}

// Create binds the value to store and decodes data.
func (v *RawBytes) Create(store kv.Store, data Encoding) error {
	b, err := leafBytes("state.RawBytes.Create", data)
	if err != nil {
		return err
	}
	v.value = append([]byte{}, b...)
	v.bind(store)
	return nil
}

// Flush consumes the value, writing its bytes through the bound store.
func (v *RawBytes) Flush() (Encoding, error) {
	if err := v.consume("state.RawBytes.Flush"); err != nil {
		return nil, err
	}
	return v.write(v.value)
}

// Get returns the current value.
func (v *RawBytes) Get() []byte { return v.value }

// Set replaces the current value.
func (v *RawBytes) Set(x []byte) { v.value = x }
