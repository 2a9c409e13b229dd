// FILE: lixenwraith/decouple/resolve.go
package decouple

import (
	"reflect"
	"strings"
)

// ListSeparator is the delimiter between list elements. There is no escaping:
// an element cannot contain a literal separator.
const ListSeparator = ","

// Source records where a resolved value came from.
type Source string

const (
	// SourceEnv marks a value parsed from the environment
	SourceEnv Source = "env"
	// SourceDefault marks a caller-supplied default
	SourceDefault Source = "default"
)

// Resolve looks up name in env and parses it as T.
//
// When the variable is absent, def is returned if set, otherwise a
// *MissingError. When it is present, def is ignored: the value is parsed and
// a failure is reported as a *ParseError even if a default was supplied.
// A nil env reads the process environment.
func Resolve[T any](env Lookuper, name string, def Value[T]) (T, error) {
	var zero T
	rv, _, err := resolveScalar(env, name, reflect.TypeFor[T](), def.reflectValue())
	if err != nil {
		return zero, err
	}
	out, _ := rv.Interface().(T)
	return out, nil
}

// ResolveList looks up name in env, splits it on ListSeparator and parses
// every element as T, preserving order.
//
// Absence and defaults behave as in Resolve. If any element fails to parse
// the whole call fails with a *ParseError carrying the unsplit value.
// The empty string splits into a single empty element, so it only succeeds
// for element types that accept "" (such as string).
func ResolveList[T any](env Lookuper, name string, def Value[[]T]) ([]T, error) {
	return ResolveListSep(env, name, ListSeparator, def)
}

// ResolveListSep is ResolveList with a custom separator.
// An empty sep means ListSeparator.
func ResolveListSep[T any](env Lookuper, name, sep string, def Value[[]T]) ([]T, error) {
	rv, _, err := resolveList(env, name, sep, reflect.TypeFor[[]T](), def.reflectValue())
	if err != nil {
		return nil, err
	}
	out, _ := rv.Interface().([]T)
	return out, nil
}

// Get resolves name from the process environment.
func Get[T any](name string, def Value[T]) (T, error) {
	return Resolve(OSEnv{}, name, def)
}

// GetList resolves a comma-separated list from the process environment.
func GetList[T any](name string, def Value[[]T]) ([]T, error) {
	return ResolveList(OSEnv{}, name, def)
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](env Lookuper, name string, def Value[T]) T {
	v, err := Resolve(env, name, def)
	if err != nil {
		panic(err)
	}
	return v
}

// MustResolveList is like ResolveList but panics on error.
func MustResolveList[T any](env Lookuper, name string, def Value[[]T]) []T {
	v, err := ResolveList(env, name, def)
	if err != nil {
		panic(err)
	}
	return v
}

// resolveScalar is the reflective core of Resolve. def is either invalid
// (no default) or a value assignable to t.
func resolveScalar(env Lookuper, name string, t reflect.Type, def reflect.Value) (reflect.Value, Source, error) {
	raw, ok := lookup(env, name)
	if !ok {
		if def.IsValid() {
			return cloneSlice(def), SourceDefault, nil
		}
		return reflect.Value{}, "", &MissingError{Name: name}
	}

	v, err := parseValue(raw, t)
	if err != nil {
		return reflect.Value{}, "", &ParseError{Name: name, Value: raw, Err: err}
	}
	return v, SourceEnv, nil
}

// resolveList is the reflective core of ResolveList; sliceType is the
// resulting slice type.
func resolveList(env Lookuper, name, sep string, sliceType reflect.Type, def reflect.Value) (reflect.Value, Source, error) {
	raw, ok := lookup(env, name)
	if !ok {
		if def.IsValid() {
			return cloneSlice(def), SourceDefault, nil
		}
		return reflect.Value{}, "", &MissingError{Name: name}
	}

	if sep == "" {
		sep = ListSeparator
	}
	parts := strings.Split(raw, sep)
	out := reflect.MakeSlice(sliceType, 0, len(parts))
	for _, part := range parts {
		v, err := parseValue(part, sliceType.Elem())
		if err != nil {
			return reflect.Value{}, "", &ParseError{Name: name, Value: raw, Err: err}
		}
		out = reflect.Append(out, v)
	}
	return out, SourceEnv, nil
}
