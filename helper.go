// FILE: lixenwraith/decouple/helper.go
package decouple

import (
	"fmt"
	"reflect"
	"strings"
)

// asciiUpper upper-cases ASCII letters only, leaving every other byte as is.
// Field names map to variables without separator insertion: CountMax -> COUNTMAX.
func asciiUpper(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// isListType reports whether a field of type t binds through the list resolver.
// The check is structural: any slice that does not parse itself is a list,
// including named slice types and []byte. net.IP and other TextUnmarshaler
// slices stay scalar.
func isListType(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && !parsesItself(t)
}

// cloneSlice returns a copy of a non-nil slice so a bound value never shares
// its backing array with a caller's default. Other values are returned as is.
func cloneSlice(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Slice || v.IsNil() {
		return v
	}
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)
	return out
}

// structPointer validates a bind target.
func structPointer(target any) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: must be non-nil pointer to struct, got %T", ErrInvalidTarget, target)
	}
	return rv, nil
}

// structValue accepts a struct or a non-nil struct pointer.
func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %T", ErrInvalidTarget, v)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: requires a struct or struct pointer, got %T", ErrInvalidTarget, v)
	}
	return rv, nil
}

// fieldByIndex walks index from v, returning an invalid Value when a nil
// pointer is in the way.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// indexKey renders an index path as a map key.
func indexKey(index []int) string {
	return fmt.Sprint(index)
}
