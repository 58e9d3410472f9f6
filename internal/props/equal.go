package props

import (
	"math"
	"reflect"
	"unsafe"
)

// Is reports whether x and y are the same value.
//
// Unlike ==, NaN is the same as NaN and +0 is not the same as -0. Maps,
// slices, pointers and channels are compared by address. Funcs are the same
// when they refer to the same closure; structs and arrays are the same when
// every field or element is.
func Is(x, y any) bool {
	return sameValue(reflect.ValueOf(x), reflect.ValueOf(y))
}

// ShallowEqual reports whether a and b are the same value, or are both
// property bags with the same keys whose values are pairwise the same
// under Is. Nested bags are compared by address only.
//
// Maps with string keys and structs are bags. A non-nil pointer to a
// struct is compared through the struct it points to.
func ShallowEqual(a, b any) bool {
	x, y := unwrap(reflect.ValueOf(a)), unwrap(reflect.ValueOf(b))
	if sameValue(x, y) {
		return true
	}

	x, y = bag(x), bag(y)
	if !x.IsValid() || !y.IsValid() {
		return false
	}

	switch {
	case x.Kind() == reflect.Map && y.Kind() == reflect.Map:
		return mapsEqual(x, y)
	case x.Kind() == reflect.Struct && y.Kind() == reflect.Struct:
		return structsEqual(x, y)
	default:
		return false
	}
}

func mapsEqual(x, y reflect.Value) bool {
	if x.Len() != y.Len() {
		return false
	}

	keyType := y.Type().Key()
	iter := x.MapRange()
	for iter.Next() {
		other := y.MapIndex(iter.Key().Convert(keyType))
		if !other.IsValid() {
			return false
		}
		if !sameValue(iter.Value(), other) {
			return false
		}
	}
	return true
}

func structsEqual(x, y reflect.Value) bool {
	if x.Type() != y.Type() {
		return false
	}
	x, y = addressable(x), addressable(y)
	for i := range x.NumField() {
		if !sameValue(x.Field(i), y.Field(i)) {
			return false
		}
	}
	return true
}

// bag returns v as a comparable bag, or the zero Value if it is not one.
func bag(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return reflect.Value{}
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() || v.Elem().Kind() != reflect.Struct {
			return reflect.Value{}
		}
		return v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}
		}
		return v
	case reflect.Struct:
		return v
	default:
		return reflect.Value{}
	}
}

// unwrap strips interface wrappers. A nil interface becomes the zero Value.
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func sameValue(x, y reflect.Value) bool {
	x, y = unwrap(x), unwrap(y)
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}
	if x.Type() != y.Type() {
		return false
	}

	switch x.Kind() {
	case reflect.Float32, reflect.Float64:
		return sameFloat(x.Float(), y.Float())
	case reflect.Complex64, reflect.Complex128:
		a, b := x.Complex(), y.Complex()
		return sameFloat(real(a), real(b)) && sameFloat(imag(a), imag(b))
	case reflect.Func:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() && y.IsNil()
		}
		px, okx := closure(x)
		py, oky := closure(y)
		return okx && oky && px == py
	case reflect.Struct:
		return structsEqual(x, y)
	case reflect.Array:
		x, y = addressable(x), addressable(y)
		for i := range x.Len() {
			if !sameValue(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Slice:
		return x.Pointer() == y.Pointer() && x.Len() == y.Len()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return x.Pointer() == y.Pointer()
	}

	if !x.Comparable() || !y.Comparable() {
		return false
	}
	return x.Equal(y)
}

// closure returns the address of the closure a non-nil func value refers
// to. Copies of a func share it; separately created closures do not.
func closure(v reflect.Value) (unsafe.Pointer, bool) {
	v = addressable(v)
	if !v.CanAddr() {
		return nil, false
	}
	return *(*unsafe.Pointer)(unsafe.Pointer(v.UnsafeAddr())), true
}

// addressable returns v, or an addressable copy of it when v is not
// addressable but exported. Fields of an addressable struct stay
// addressable, so closures in unexported fields can still be read.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() || !v.CanInterface() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

func sameFloat(a, b float64) bool {
	if a == b {
		return a != 0 || math.Signbit(a) == math.Signbit(b)
	}
	return math.IsNaN(a) && math.IsNaN(b)
}
