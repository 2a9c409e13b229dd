// FILE: lixenwraith/decouple/value.go
package decouple

import "reflect"

// Value is an optional default. The zero Value is unset, which is different
// from a Value holding the zero value of T.
type Value[T any] struct {
	v   T
	set bool
}

// ValueOf returns a set Value holding v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// None returns an unset Value. It is equivalent to Value[T]{}.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Value returns the held value and whether it is set.
func (v Value[T]) Value() (T, bool) {
	return v.v, v.set
}

// IsSet reports whether v holds a value.
func (v Value[T]) IsSet() bool {
	return v.set
}

func (v Value[T]) reflectValue() reflect.Value {
	if !v.set {
		return reflect.Value{}
	}
	// Elem of a pointer keeps the static type even for interface T
	return reflect.ValueOf(&v.v).Elem()
}
