// FILE: lixenwraith/decouple/error.go
package decouple

import (
	"errors"
	"fmt"
)

var (
	// ErrVariableMissing matches a *MissingError via errors.Is
	ErrVariableMissing = errors.New("variable missing")
	// ErrParseFailed matches a *ParseError via errors.Is
	ErrParseFailed = errors.New("parse failed")
	// ErrUnsupportedType is the parse cause when a type has no string conversion
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrInvalidTarget is returned when a bind target is not a non-nil struct pointer
	ErrInvalidTarget = errors.New("invalid bind target")
	// ErrValidation is returned by Builder.Build when a bound struct fails validation
	ErrValidation = errors.New("configuration validation failed")
	// ErrFixtureFormat is returned when an environment fixture cannot be flattened
	ErrFixtureFormat = errors.New("invalid environment fixture")
)

// MissingError reports a variable that is absent from the environment
// while no default was supplied.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("environment variable %q is not set", e.Name)
}

// Is reports whether target is ErrVariableMissing.
func (e *MissingError) Is(target error) bool {
	return target == ErrVariableMissing
}

// ParseError reports a present variable whose value could not be converted
// to the requested type. Value is always the complete raw string, including
// for lists where only one element failed.
type ParseError struct {
	Name  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot parse environment variable %q from value %q", e.Name, e.Value)
	}
	return fmt.Sprintf("cannot parse environment variable %q from value %q: %v", e.Name, e.Value, e.Err)
}

// Is reports whether target is ErrParseFailed.
func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailed
}

// Unwrap returns the underlying conversion error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
