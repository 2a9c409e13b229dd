// FILE: lixenwraith/decouple/env.go
package decouple

import (
	"os"
	"strings"
)

// Lookuper is the read side of an environment table.
// Lookup reports the value bound to name and whether it is set at all;
// a variable set to the empty string is present.
type Lookuper interface {
	Lookup(name string) (string, bool)
}

// LookupFunc adapts a plain function to Lookuper.
type LookupFunc func(name string) (string, bool)

// Lookup implements Lookuper.
func (f LookupFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// OSEnv reads the process environment on every call.
type OSEnv struct{}

// Lookup implements Lookuper.
func (OSEnv) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapEnv is a static environment table, mostly useful in tests.
type MapEnv map[string]string

// Lookup implements Lookuper.
func (m MapEnv) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Environ builds a MapEnv from "KEY=value" pairs in the format of os.Environ.
// Pairs without '=' are ignored; a later duplicate key wins.
func Environ(pairs []string) MapEnv {
	m := make(MapEnv, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}

// lookup falls back to the process environment for a nil env.
func lookup(env Lookuper, name string) (string, bool) {
	if env == nil {
		return os.LookupEnv(name)
	}
	return env.Lookup(name)
}
