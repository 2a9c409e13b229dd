// FILE: lixenwraith/decouple/builder.go
package decouple

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ValidatorFunc validates a fully bound target before it is committed.
// It receives a pointer to the staged struct.
type ValidatorFunc func(target any) error

// Builder provides a fluent interface for binding structs from an environment
type Builder struct {
	env        Lookuper
	tagName    string
	prefix     string
	defaults   any
	logger     zerolog.Logger
	validate   *validator.Validate
	validators []ValidatorFunc
	err        error
}

// NewBuilder creates a builder reading the process environment
func NewBuilder() *Builder {
	return &Builder{
		env:        OSEnv{},
		tagName:    DefaultTagName,
		logger:     zerolog.Nop(),
		validators: make([]ValidatorFunc, 0),
	}
}

// WithEnv sets the environment to read from
func (b *Builder) WithEnv(env Lookuper) *Builder {
	if env != nil {
		b.env = env
	}
	return b
}

// WithEnvFile reads the environment from a fixture file (see ReadEnvFile).
// A read error is reported by Build.
func (b *Builder) WithEnvFile(path string) *Builder {
	vars, err := ReadEnvFile(path)
	if err != nil {
		b.err = err
		return b
	}
	b.env = vars
	return b
}

// WithTagName sets the struct tag used for variable names
func (b *Builder) WithTagName(tagName string) *Builder {
	if tagName != "" {
		b.tagName = tagName
	}
	return b
}

// WithPrefix sets the prefix prepended to every variable name
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// WithDefaults sets a struct of the target's type whose field values are
// used when the corresponding variable is absent. Every bound field gets a
// default, zero values included.
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithLogger sets the logger receiving per-field debug events
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithStructValidation checks `validate` struct tags after binding
func (b *Builder) WithStructValidation() *Builder {
	if b.validate == nil {
		b.validate = validator.New()
	}
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build binds target, a non-nil struct pointer, with all specified options.
// On any error target is left unchanged.
func (b *Builder) Build(target any) error {
	if b.err != nil {
		return b.err
	}

	opts := bindOptions{
		tagName: b.tagName,
		prefix:  b.prefix,
		logger:  b.logger,
		check:   b.check,
	}

	if b.defaults != nil {
		dv, err := structValue(b.defaults)
		if err != nil {
			return fmt.Errorf("failed to register defaults: %w", err)
		}
		opts.defaults = dv
	}

	if err := bind(b.env, target, opts); err != nil {
		return err
	}

	b.logger.Debug().
		Str("target", fmt.Sprintf("%T", target)).
		Str("prefix", b.prefix).
		Msg("Configuration bound")
	return nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild(target any) {
	if err := b.Build(target); err != nil {
		panic(fmt.Sprintf("decouple build failed: %v", err))
	}
}

// check runs struct validation and custom validators on the staged target
func (b *Builder) check(staged any) error {
	if b.validate != nil {
		if err := b.validate.Struct(staged); err != nil {
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				msgs := make([]string, 0, len(validationErrors))
				for _, e := range validationErrors {
					msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", e.Namespace(), e.Tag()))
				}
				return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
			}
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	for _, fn := range b.validators {
		if err := fn(staged); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return nil
}
