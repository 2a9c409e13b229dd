// FILE: lixenwraith/decouple/example/main.go
package main

import (
	"errors"
	"os"
	"time"

	"github.com/lixenwraith/decouple"
	"github.com/rs/zerolog"
)

// DatabaseConfig is bound with the DB_ prefix.
type DatabaseConfig struct {
	Hosts       []string      `validate:"min=1"`
	MaxConns    int           `validate:"gte=1"`
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`
}

// AppConfig is the application configuration read from the environment.
type AppConfig struct {
	CountMax uint8
	LogLevel string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Ports    []uint16
	Database DatabaseConfig `envPrefix:"DB_"`
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger().
		Level(zerolog.DebugLevel)

	// Values a deployment would normally provide
	env := decouple.MapEnv{
		"APP_COUNTMAX":        "8",
		"APP_PORTS":           "8080,8443",
		"APP_DB_HOSTS":        "primary.db,replica.db",
		"APP_DB_IDLE_TIMEOUT": "45s",
	}

	defaults := AppConfig{
		LogLevel: "info",
		Database: DatabaseConfig{MaxConns: 10, IdleTimeout: 30 * time.Second},
	}

	var cfg AppConfig
	err := decouple.NewBuilder().
		WithEnv(env).
		WithPrefix("APP_").
		WithDefaults(defaults).
		WithStructValidation().
		WithLogger(logger).
		Build(&cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to bind configuration")
	}

	logger.Info().
		Uint8("count_max", cfg.CountMax).
		Str("log_level", cfg.LogLevel).
		Interface("ports", cfg.Ports).
		Str("primary_db", cfg.Database.Hosts[0]).
		Int("max_conns", cfg.Database.MaxConns).
		Dur("idle_timeout", cfg.Database.IdleTimeout).
		Msg("Configuration loaded")

	// A missing variable without a default is reported by name
	var strict AppConfig
	err = decouple.Bind(decouple.MapEnv{}, &strict)
	var missing *decouple.MissingError
	if errors.As(err, &missing) {
		logger.Warn().Str("variable", missing.Name).Msg("Variable not set")
	}

	// Single values straight from the process environment
	home, err := decouple.Get("HOME", decouple.ValueOf("/"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve HOME")
		return
	}
	logger.Info().Str("home", home).Msg("Resolved from process environment")
}
