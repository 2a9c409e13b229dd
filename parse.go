// FILE: lixenwraith/decouple/parse.go
package decouple

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

// Unmarshaler is implemented by types that parse themselves from the raw
// string value of an environment variable. It takes precedence over
// encoding.TextUnmarshaler and the built-in conversions.
type Unmarshaler interface {
	UnmarshalEnv(raw string) error
}

var (
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Parse converts raw into a T using the same rules as Resolve.
//
// Supported, in order of precedence:
//   - pointers to any supported type
//   - types whose pointer implements Unmarshaler
//   - types whose pointer implements encoding.TextUnmarshaler (time.Time, net.IP, ...)
//   - time.Duration, url.URL, net.IPNet
//   - strings, bools, integers (base 10), floats, complex numbers and []byte
func Parse[T any](raw string) (T, error) {
	var zero T
	rv, err := parseValue(raw, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	out, _ := rv.Interface().(T)
	return out, nil
}

// parsesItself reports whether values of t convert through an unmarshal method.
func parsesItself(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(unmarshalerType) || pt.Implements(textUnmarshalerType)
}

// parseValue converts raw into a new value of type t.
func parseValue(raw string, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.Pointer {
		elem, err := parseValue(raw, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	out := reflect.New(t)
	switch u := out.Interface().(type) {
	case Unmarshaler:
		if err := u.UnmarshalEnv(raw); err != nil {
			return reflect.Value{}, err
		}
		return out.Elem(), nil
	case encoding.TextUnmarshaler:
		if err := u.UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, err
		}
		return out.Elem(), nil
	}

	if hookTypes[t] {
		return decodeHooked(raw, t)
	}

	v := out.Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(f)
	case reflect.Complex64, reflect.Complex128:
		c, err := strconv.ParseComplex(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetComplex(c)
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
		}
		v.SetBytes([]byte(raw))
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return v, nil
}
