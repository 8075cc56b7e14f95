package state

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/strata-kv/strata/kit/errors"
	"github.com/strata-kv/strata/kv"
)

// Compound records are wired by enumerating the exported fields of a
// struct in declaration order. Field i is bound to store.Sub(segment(i))
// and matched with component i of the Tuple encoding; the addressing is
// purely positional, so reordering fields changes where their state lives.
//
// A field must either implement Value or be a plain struct record, which
// is wired recursively. Anything else - an interface field, a pointer, a
// bare int - is an unsupported shape and panics: positional wiring cannot
// express tagged unions or untracked leaves, and generating a wrong layout
// would corrupt persisted state.

// segment returns the path segment addressing field i of a compound record.
func segment(i int) []byte {
	return binary.AppendUvarint(nil, uint64(i))
}

// Create materializes the struct record pointed to by rec from store and
// data, binding each field to its positional sub-store. data must be a
// Tuple with one component per exported field, or nil for state that has
// never been persisted. Any field failure aborts the whole operation;
// writes already made by earlier fields are not rolled back.
func Create(store kv.Store, data Encoding, rec interface{}) error {
	rv := reflect.ValueOf(rec)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("state: record must be a pointer to a struct, got %T", rec))
	}
	return createStruct("state.Create", store, data, rv.Elem())
}

// Flush consumes the struct record pointed to by rec, flushing each field
// through its bound sub-store and reassembling the components into a Tuple
// in the same declared order used for addressing.
func Flush(rec interface{}) (Encoding, error) {
	rv := reflect.ValueOf(rec)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("state: record must be a pointer to a struct, got %T", rec))
	}
	return flushStruct("state.Flush", rv.Elem())
}

var valueType = reflect.TypeOf((*Value)(nil)).Elem()

// recordFields returns the exported fields of rv in declaration order,
// rejecting zero-field records.
func recordFields(op string, rv reflect.Value) ([]reflect.Value, []string, error) {
	rt := rv.Type()
	var (
		fields []reflect.Value
		names  []string
	)
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).PkgPath != "" { // unexported
			continue
		}
		fields = append(fields, rv.Field(i))
		names = append(names, rt.Field(i).Name)
	}
	if len(fields) == 0 {
		// A record with no addressable state is ambiguous between absent
		// and present-but-empty.
		return nil, nil, &errors.Error{
			Code: errors.EInvalid,
			Op:   op,
			Msg:  fmt.Sprintf("record type %s has no exported fields", rt),
		}
	}
	return fields, names, nil
}

func fieldError(op string, i int, name string, err error) error {
	return &errors.Error{
		Op:  op,
		Msg: fmt.Sprintf("field %d (%s)", i, name),
		Err: err,
	}
}

func createStruct(op string, store kv.Store, data Encoding, rv reflect.Value) error {
	fields, names, err := recordFields(op, rv)
	if err != nil {
		return err
	}

	var tuple Tuple
	switch d := data.(type) {
	case nil:
	case Tuple:
		if len(d) != len(fields) {
			return &errors.Error{
				Code: errors.EInvalid,
				Op:   op,
				Msg:  fmt.Sprintf("record type %s has %d fields but encoding has %d components", rv.Type(), len(fields), len(d)),
			}
		}
		tuple = d
	default:
		return &errors.Error{
			Code: errors.EInvalid,
			Op:   op,
			Msg:  fmt.Sprintf("record type %s expects a tuple encoding, got %T", rv.Type(), data),
		}
	}

	for i, field := range fields {
		sub := store.Sub(segment(i))
		var component Encoding
		if tuple != nil {
			component = tuple[i]
		}

		if v, ok := fieldValue(field); ok {
			if err := v.Create(sub, component); err != nil {
				return fieldError(op, i, names[i], err)
			}
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := createStruct(op, sub, component, field); err != nil {
				return fieldError(op, i, names[i], err)
			}
			continue
		}
		panic(fmt.Sprintf("state: field %s of %s is neither a state.Value nor a struct record", names[i], rv.Type()))
	}
	return nil
}

func flushStruct(op string, rv reflect.Value) (Encoding, error) {
	fields, names, err := recordFields(op, rv)
	if err != nil {
		return nil, err
	}

	tuple := make(Tuple, 0, len(fields))
	for i, field := range fields {
		var (
			enc Encoding
			err error
		)
		if v, ok := fieldValue(field); ok {
			enc, err = v.Flush()
		} else if field.Kind() == reflect.Struct {
			enc, err = flushStruct(op, field)
		} else {
			panic(fmt.Sprintf("state: field %s of %s is neither a state.Value nor a struct record", names[i], rv.Type()))
		}
		if err != nil {
			return nil, fieldError(op, i, names[i], err)
		}
		tuple = append(tuple, enc)
	}
	return tuple, nil
}

// fieldValue reports whether the addressable field implements Value.
func fieldValue(field reflect.Value) (Value, bool) {
	if !field.CanAddr() {
		return nil, false
	}
	addr := field.Addr()
	if !addr.Type().Implements(valueType) {
		return nil, false
	}
	return addr.Interface().(Value), true
}
