// FILE: lixenwraith/decouple/binding_test.go
package decouple_test

import (
	"testing"
	"time"

	"github.com/lixenwraith/decouple"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBindAll tests explicit binding lists
func TestBindAll(t *testing.T) {
	t.Run("AllResolved", func(t *testing.T) {
		var (
			name    string
			port    int
			hosts   []string
			timeout time.Duration
		)

		err := decouple.BindAll(decouple.MapEnv{"NAME": "svc", "HOSTS": "a,b"},
			decouple.Scalar(&name, "NAME", decouple.None[string]()),
			decouple.Scalar(&port, "PORT", decouple.ValueOf(8080)),
			decouple.List(&hosts, "HOSTS", decouple.None[[]string]()),
			decouple.Scalar(&timeout, "TIMEOUT", decouple.ValueOf(30*time.Second)),
		)
		require.NoError(t, err)
		assert.Equal(t, "svc", name)
		assert.Equal(t, 8080, port)
		assert.Equal(t, []string{"a", "b"}, hosts)
		assert.Equal(t, 30*time.Second, timeout)
	})

	t.Run("NothingWrittenOnFailure", func(t *testing.T) {
		name := "before"
		port := 1

		err := decouple.BindAll(decouple.MapEnv{"NAME": "after", "PORT": "x"},
			decouple.Scalar(&name, "NAME", decouple.None[string]()),
			decouple.Scalar(&port, "PORT", decouple.None[int]()),
		)
		var pe *decouple.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "PORT", pe.Name)
		assert.Equal(t, "before", name)
		assert.Equal(t, 1, port)
	})

	t.Run("FirstFailureReturned", func(t *testing.T) {
		var a, b string
		err := decouple.BindAll(decouple.MapEnv{},
			decouple.Scalar(&a, "A", decouple.None[string]()),
			decouple.Scalar(&b, "B", decouple.None[string]()),
		)
		assert.Equal(t, &decouple.MissingError{Name: "A"}, err)
	})

	t.Run("ZeroBindingIgnored", func(t *testing.T) {
		var a string
		err := decouple.BindAll(decouple.MapEnv{"A": "x"},
			decouple.Binding{},
			decouple.Scalar(&a, "A", decouple.None[string]()),
		)
		require.NoError(t, err)
		assert.Equal(t, "x", a)
	})

	t.Run("Variable", func(t *testing.T) {
		var hosts []string
		assert.Equal(t, "HOSTS", decouple.List(&hosts, "HOSTS", decouple.None[[]string]()).Variable())
	})
}
