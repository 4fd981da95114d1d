// Package aqlvalue implements the tagged Value union that flows through
// the execution engine's row blocks: null, boolean, integer, double,
// string, document/object and array handles, with the three-way compare
// and hash contract the collect executors rely on for group keys.
package aqlvalue

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// Type tags a Value's underlying representation.
type Type int

const (
	TypeNull Type = iota
	TypeBool
	TypeInt
	TypeDouble
	TypeString
	TypeArray
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Value is a small tagged union. Scalars are stored inline; array and
// object payloads are reference handles (a Go slice/*ordereddict.Dict),
// shared until explicitly cloned. Ownership transfer is explicit: callers
// that want to keep a Value past the lifetime of its source row should
// call Clone.
type Value struct {
	typ Type
	b   bool
	i   int64
	d   float64
	s   string
	arr []Value
	obj *ordereddict.Dict
}

// Null is the canonical null Value.
func Null() Value { return Value{typ: TypeNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Int wraps a 64-bit signed integer.
func Int(i int64) Value { return Value{typ: TypeInt, i: i} }

// Double wraps a float64.
func Double(d float64) Value { return Value{typ: TypeDouble, d: d} }

// String wraps a string. Short strings and large strings share the same
// representation in this implementation; the engine does not need the
// reference-counted large-string optimization the storage engine uses.
func String(s string) Value { return Value{typ: TypeString, s: s} }

// Array wraps a slice of Values. The slice is referenced, not copied;
// call Clone to take an owned copy.
func Array(items []Value) Value { return Value{typ: TypeArray, arr: items} }

// Object wraps a document/object handle.
func Object(d *ordereddict.Dict) Value { return Value{typ: TypeObject, obj: d} }

func (v Value) Type() Type { return v.typ }

func (v Value) IsNull() bool { return v.typ == TypeNull }

func (v Value) AsBool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsInt() (int64, bool) {
	if v.typ != TypeInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) AsDouble() (float64, bool) {
	if v.typ != TypeDouble {
		return 0, false
	}
	return v.d, true
}

// AsFloat returns the value widened to float64 if it is numeric
// (integer or double), mirroring the int<->double promotion rule used
// throughout three-way compare and the SUM aggregator.
func (v Value) AsFloat() (float64, bool) {
	switch v.typ {
	case TypeInt:
		return float64(v.i), true
	case TypeDouble:
		return v.d, true
	default:
		return 0, false
	}
}

func (v Value) AsString() (string, bool) {
	if v.typ != TypeString {
		return "", false
	}
	return v.s, true
}

func (v Value) AsArray() ([]Value, bool) {
	if v.typ != TypeArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) AsObject() (*ordereddict.Dict, bool) {
	if v.typ != TypeObject {
		return nil, false
	}
	return v.obj, true
}

// Clone deep-copies the Value. Scalars are copied trivially; arrays and
// objects are recursively cloned so the result owns its own storage.
func (v Value) Clone() Value {
	switch v.typ {
	case TypeArray:
		cloned := make([]Value, len(v.arr))
		for i, item := range v.arr {
			cloned[i] = item.Clone()
		}
		return Array(cloned)
	case TypeObject:
		if v.obj == nil {
			return Object(nil)
		}
		cloned := ordereddict.NewDict()
		for _, key := range v.obj.Keys() {
			item, _ := v.obj.Get(key)
			if inner, ok := item.(Value); ok {
				cloned.Set(key, inner.Clone())
			} else {
				cloned.Set(key, item)
			}
		}
		return Object(cloned)
	default:
		return v
	}
}

func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "null"
	case TypeBool:
		return fmt.Sprintf("%v", v.b)
	case TypeInt:
		return fmt.Sprintf("%d", v.i)
	case TypeDouble:
		return fmt.Sprintf("%v", v.d)
	case TypeString:
		return v.s
	case TypeArray:
		return fmt.Sprintf("%v", v.arr)
	case TypeObject:
		return fmt.Sprintf("%v", v.obj)
	default:
		return "<invalid value>"
	}
}
