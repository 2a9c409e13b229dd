// FILE: lixenwraith/decouple/bind_test.go
package decouple

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindBasic struct {
	CountMax uint8
}

type bindLists struct {
	Hosts []string
	Ports []uint16
}

// TestBind tests reflection-based struct binding
func TestBind(t *testing.T) {
	t.Run("ScalarField", func(t *testing.T) {
		var cfg bindBasic
		err := Bind(MapEnv{"COUNTMAX": "8"}, &cfg)
		require.NoError(t, err)
		assert.Equal(t, uint8(8), cfg.CountMax)
	})

	t.Run("MissingField", func(t *testing.T) {
		var cfg bindBasic
		err := Bind(MapEnv{}, &cfg)
		assert.Equal(t, &MissingError{Name: "COUNTMAX"}, err)
	})

	t.Run("UnparseableField", func(t *testing.T) {
		var cfg bindBasic
		err := Bind(MapEnv{"COUNTMAX": "256"}, &cfg)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "COUNTMAX", pe.Name)
		assert.Equal(t, "256", pe.Value)
	})

	t.Run("ListFields", func(t *testing.T) {
		var cfg bindLists
		err := Bind(MapEnv{"HOSTS": "a,b", "PORTS": "80,443"}, &cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, cfg.Hosts)
		assert.Equal(t, []uint16{80, 443}, cfg.Ports)
	})

	t.Run("FailFastInDeclarationOrder", func(t *testing.T) {
		type twoMissing struct {
			First  string
			Second string
		}
		var cfg twoMissing
		err := Bind(MapEnv{}, &cfg)
		assert.Equal(t, &MissingError{Name: "FIRST"}, err)
	})

	t.Run("TargetUnchangedOnFailure", func(t *testing.T) {
		type partial struct {
			Name  string
			Count int
		}
		cfg := partial{Name: "keep", Count: 1}
		err := Bind(MapEnv{"NAME": "changed", "COUNT": "many"}, &cfg)
		require.Error(t, err)
		assert.Equal(t, partial{Name: "keep", Count: 1}, cfg)
	})

	t.Run("Tags", func(t *testing.T) {
		type tagged struct {
			LogLevel string   `env:"LOG_LEVEL"`
			Internal string   `env:"-"`
			Peers    []string `envSeparator:";"`
			hidden   string
		}
		cfg := tagged{Internal: "untouched", hidden: "private"}
		err := Bind(MapEnv{"LOG_LEVEL": "debug", "PEERS": "a;b;c", "INTERNAL": "x"}, &cfg)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "untouched", cfg.Internal)
		assert.Equal(t, []string{"a", "b", "c"}, cfg.Peers)
		assert.Equal(t, "private", cfg.hidden)
	})

	t.Run("NestedPrefix", func(t *testing.T) {
		type database struct {
			Hosts []string
			Port  int
		}
		type app struct {
			Name     string
			Database database  `envPrefix:"DB_"`
			Cache    *database `envPrefix:"CACHE_"`
		}

		var cfg app
		err := Bind(MapEnv{
			"NAME":        "svc",
			"DB_HOSTS":    "db1,db2",
			"DB_PORT":     "5432",
			"CACHE_HOSTS": "redis",
			"CACHE_PORT":  "6379",
		}, &cfg)
		require.NoError(t, err)
		assert.Equal(t, "svc", cfg.Name)
		assert.Equal(t, []string{"db1", "db2"}, cfg.Database.Hosts)
		assert.Equal(t, 5432, cfg.Database.Port)
		require.NotNil(t, cfg.Cache)
		assert.Equal(t, 6379, cfg.Cache.Port)
	})

	t.Run("PointerStructNotSharedOnFailure", func(t *testing.T) {
		type inner struct{ Port int }
		type outer struct {
			Inner *inner `envPrefix:"IN_"`
			Name  string
		}
		shared := &inner{Port: 1}
		cfg := outer{Inner: shared}
		err := Bind(MapEnv{"IN_PORT": "2"}, &cfg)
		assert.Equal(t, &MissingError{Name: "NAME"}, err)
		assert.Equal(t, 1, shared.Port)
		assert.Same(t, shared, cfg.Inner)
	})

	t.Run("EmbeddedFlattened", func(t *testing.T) {
		type Common struct {
			Region string
		}
		type svc struct {
			Common
			Replicas int
		}
		var cfg svc
		err := Bind(MapEnv{"REGION": "eu", "REPLICAS": "3"}, &cfg)
		require.NoError(t, err)
		assert.Equal(t, "eu", cfg.Region)
		assert.Equal(t, 3, cfg.Replicas)
	})

	t.Run("SelfParsingTypes", func(t *testing.T) {
		type network struct {
			Addr    net.IP
			Subnet  *net.IPNet
			Timeout time.Duration
			Level   level
			Retries []time.Duration
		}
		var cfg network
		err := Bind(MapEnv{
			"ADDR":    "10.1.2.3",
			"SUBNET":  "10.0.0.0/8",
			"TIMEOUT": "5s",
			"LEVEL":   "low",
			"RETRIES": "1s,2s",
		}, &cfg)
		require.NoError(t, err)
		assert.Equal(t, "10.1.2.3", cfg.Addr.String())
		assert.Equal(t, "10.0.0.0/8", cfg.Subnet.String())
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, level(1), cfg.Level)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, cfg.Retries)
	})

	t.Run("NamedSliceIsList", func(t *testing.T) {
		type hostList []string
		type withNamed struct {
			Hosts hostList
		}
		var cfg withNamed
		require.NoError(t, Bind(MapEnv{"HOSTS": "x,y"}, &cfg))
		assert.Equal(t, hostList{"x", "y"}, cfg.Hosts)
	})

	t.Run("ByteSliceIsList", func(t *testing.T) {
		type withLevels struct {
			Levels []uint8
		}
		var cfg withLevels
		require.NoError(t, Bind(MapEnv{"LEVELS": "1,2,3"}, &cfg))
		assert.Equal(t, []uint8{1, 2, 3}, cfg.Levels)

		err := Bind(MapEnv{"LEVELS": "1,x,3"}, &cfg)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "LEVELS", pe.Name)
		assert.Equal(t, "1,x,3", pe.Value)
		assert.Equal(t, []uint8{1, 2, 3}, cfg.Levels)

		_, listErr := ResolveList[uint8](MapEnv{"LEVELS": "1,x,3"}, "LEVELS", None[[]uint8]())
		assert.Equal(t, listErr, err, "binder and list resolver agree")
	})

	t.Run("RawOption", func(t *testing.T) {
		type withRaw struct {
			Key   []byte `env:",raw"`
			Token []byte `env:"API_TOKEN,raw"`
		}
		var cfg withRaw
		require.NoError(t, Bind(MapEnv{"KEY": "1,x,3", "API_TOKEN": "s3cr3t"}, &cfg))
		assert.Equal(t, []byte("1,x,3"), cfg.Key)
		assert.Equal(t, []byte("s3cr3t"), cfg.Token)

		fields, err := Fields(withRaw{})
		require.NoError(t, err)
		assert.False(t, fields[0].List)
		assert.Equal(t, "API_TOKEN", fields[1].Variable)
	})

	t.Run("EmptyStruct", func(t *testing.T) {
		var cfg struct{}
		assert.NoError(t, Bind(MapEnv{}, &cfg))
	})

	t.Run("InvalidTargets", func(t *testing.T) {
		var cfg bindBasic
		var nilPtr *bindBasic
		n := 1

		for name, target := range map[string]any{
			"NonPointer": cfg,
			"NilPointer": nilPtr,
			"NonStruct":  &n,
			"UntypedNil": nil,
		} {
			t.Run(name, func(t *testing.T) {
				assert.ErrorIs(t, Bind(MapEnv{"COUNTMAX": "1"}, target), ErrInvalidTarget)
			})
		}
	})

	t.Run("PrefixOnNonStruct", func(t *testing.T) {
		type bad struct {
			Port int `envPrefix:"P_"`
		}
		var cfg bad
		assert.ErrorIs(t, Bind(MapEnv{}, &cfg), ErrInvalidTarget)
	})

	t.Run("RecursiveStruct", func(t *testing.T) {
		type node struct {
			Name string
			Next *node `envPrefix:"NEXT_"`
		}
		var cfg node
		assert.ErrorIs(t, Bind(MapEnv{"NAME": "a"}, &cfg), ErrInvalidTarget)
	})
}

// TestFields tests the binding plan
func TestFields(t *testing.T) {
	type database struct {
		Hosts []string
	}
	type app struct {
		CountMax uint8
		LogLevel string   `env:"LOG_LEVEL"`
		Skip     string   `env:"-"`
		Addr     net.IP
		Peers    []string `envSeparator:"|"`
		Database database `envPrefix:"DB_"`
	}

	fields, err := Fields(app{})
	require.NoError(t, err)
	require.Len(t, fields, 5)

	want := []struct {
		path, variable, sep string
		list                bool
	}{
		{"CountMax", "COUNTMAX", "", false},
		{"LogLevel", "LOG_LEVEL", "", false},
		{"Addr", "ADDR", "", false},
		{"Peers", "PEERS", "|", true},
		{"Database.Hosts", "DB_HOSTS", ",", true},
	}
	for i, w := range want {
		assert.Equal(t, w.path, fields[i].Path)
		assert.Equal(t, w.variable, fields[i].Variable)
		assert.Equal(t, w.list, fields[i].List)
		assert.Equal(t, w.sep, fields[i].Separator)
	}

	ptrFields, err := Fields(&app{})
	require.NoError(t, err)
	assert.Len(t, ptrFields, 5)

	_, err = Fields(42)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}
