// FILE: lixenwraith/decouple/bind.go
package decouple

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultTagName is the struct tag consulted when binding structs.
// With tag name "env" the companion tags are "envPrefix" and "envSeparator".
const DefaultTagName = "env"

// Field describes how a struct field maps onto an environment variable.
type Field struct {
	Path      string // Dotted Go field path, e.g. "Database.Hosts"
	Variable  string
	List      bool
	Separator string // List fields only
	Type      reflect.Type
	index     []int
}

type bindOptions struct {
	tagName  string
	prefix   string
	defaults reflect.Value // Struct of the target type, or invalid
	logger   zerolog.Logger
	check    func(staged any) error
}

func defaultBindOptions() bindOptions {
	return bindOptions{
		tagName: DefaultTagName,
		logger:  zerolog.Nop(),
	}
}

// Bind populates the exported fields of the struct that target points to.
//
// Each field reads the variable named by the ASCII upper-case of its Go
// name (CountMax reads COUNTMAX) unless an `env:"NAME"` tag overrides it;
// `env:"-"` skips the field. Slice fields go through the list resolver,
// everything else through the scalar resolver, and no defaults apply.
// The ",raw" option (`env:",raw"` or `env:"NAME,raw"`) binds a []byte field
// to the unsplit value instead.
// Struct fields tagged `envPrefix:"DB_"` are bound recursively with the
// prefix; embedded structs are flattened.
//
// Binding stops at the first failing field and returns its resolution error
// unwrapped. The target is only written when every field resolved.
func Bind(env Lookuper, target any) error {
	return bind(env, target, defaultBindOptions())
}

// Fields returns the binding plan for a struct or struct pointer without
// reading any environment.
func Fields(target any) ([]Field, error) {
	rv, err := structValue(target)
	if err != nil {
		return nil, err
	}
	return planStruct(rv.Type(), DefaultTagName, "")
}

func bind(env Lookuper, target any, opts bindOptions) error {
	rv, err := structPointer(target)
	if err != nil {
		return err
	}
	structType := rv.Elem().Type()

	if opts.defaults.IsValid() && opts.defaults.Type() != structType {
		return fmt.Errorf("%w: defaults of type %s do not match target %s", ErrInvalidTarget, opts.defaults.Type(), structType)
	}

	fields, err := planStruct(structType, opts.tagName, opts.prefix)
	if err != nil {
		return err
	}

	st := newStage(rv.Elem())
	for _, f := range fields {
		var def reflect.Value
		if opts.defaults.IsValid() {
			def = fieldByIndex(opts.defaults, f.index)
		}

		var (
			v   reflect.Value
			src Source
		)
		if f.List {
			v, src, err = resolveList(env, f.Variable, f.Separator, f.Type, def)
		} else {
			v, src, err = resolveScalar(env, f.Variable, f.Type, def)
		}
		if err != nil {
			opts.logger.Debug().
				Str("field", f.Path).
				Str("variable", f.Variable).
				Err(err).
				Msg("Field resolution failed")
			return err
		}

		st.field(f.index).Set(v)
		opts.logger.Debug().
			Str("field", f.Path).
			Str("variable", f.Variable).
			Str("source", string(src)).
			Msg("Field resolved")
	}

	if opts.check != nil {
		if err := opts.check(st.root.Addr().Interface()); err != nil {
			return err
		}
	}

	rv.Elem().Set(st.root)
	return nil
}

// planStruct lists the bindable fields of struct type t.
func planStruct(t reflect.Type, tagName, prefix string) ([]Field, error) {
	var fields []Field
	visiting := map[reflect.Type]bool{t: true}
	if err := planFields(t, tagName, prefix, "", nil, visiting, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func planFields(t reflect.Type, tagName, prefix, pathPrefix string, index []int, visiting map[reflect.Type]bool, out *[]Field) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get(tagName)
		if tag == "-" {
			continue
		}

		idx := make([]int, len(index)+1)
		copy(idx, index)
		idx[len(index)] = i
		path := pathPrefix + sf.Name

		nestedPrefix, hasPrefix := sf.Tag.Lookup(tagName + "Prefix")
		nestedType := sf.Type
		if nestedType.Kind() == reflect.Pointer {
			nestedType = nestedType.Elem()
		}
		flatten := sf.Anonymous && tag == "" && nestedType.Kind() == reflect.Struct && !parsesItself(nestedType)

		if hasPrefix || flatten {
			if nestedType.Kind() != reflect.Struct {
				return fmt.Errorf("%w: field %s has a %sPrefix tag but is not a struct", ErrInvalidTarget, path, tagName)
			}
			if !sf.IsExported() && (!sf.Anonymous || sf.Type.Kind() == reflect.Pointer) {
				continue
			}
			if visiting[nestedType] {
				return fmt.Errorf("%w: recursive struct %s at field %s", ErrInvalidTarget, nestedType, path)
			}
			visiting[nestedType] = true
			err := planFields(nestedType, tagName, prefix+nestedPrefix, path+".", idx, visiting, out)
			delete(visiting, nestedType)
			if err != nil {
				return err
			}
			continue
		}

		if !sf.IsExported() {
			continue
		}

		name, opt, _ := strings.Cut(tag, ",")
		if name == "" {
			name = asciiUpper(sf.Name)
		}

		f := Field{
			Path:     path,
			Variable: prefix + name,
			List:     isListType(sf.Type) && opt != "raw",
			Type:     sf.Type,
			index:    idx,
		}
		if f.List {
			f.Separator = sf.Tag.Get(tagName + "Separator")
			if f.Separator == "" {
				f.Separator = ListSeparator
			}
		}
		*out = append(*out, f)
	}
	return nil
}

// stage is a working copy of the target struct. Pointer-to-struct fields on
// the way to a bound field are copied once, so nothing reachable from the
// target changes before commit.
type stage struct {
	root   reflect.Value
	copied map[string]bool
}

func newStage(target reflect.Value) *stage {
	root := reflect.New(target.Type()).Elem()
	root.Set(target)
	return &stage{root: root, copied: make(map[string]bool)}
}

// field returns the settable field at index, detaching intermediate pointers.
func (s *stage) field(index []int) reflect.Value {
	v := s.root
	for i, x := range index {
		v = v.Field(x)
		if i == len(index)-1 || v.Kind() != reflect.Pointer {
			continue
		}
		key := indexKey(index[:i+1])
		if !s.copied[key] {
			fresh := reflect.New(v.Type().Elem())
			if !v.IsNil() {
				fresh.Elem().Set(v.Elem())
			}
			v.Set(fresh)
			s.copied[key] = true
		}
		v = v.Elem()
	}
	return v
}
