/*
Package config loads process configuration from the environment.

VARIABLES:
  LIFESIM_ADDR              HTTP listen address (":8080")
  LIFESIM_DB                SQLite path ("lifesim.db"; ":memory:" allowed)
  LIFESIM_LOG_LEVEL         debug, info, warn, error ("info")
  LIFESIM_SEED              Root seed for new games (0 = wall clock)
  LIFESIM_AUTOSAVE_RETRIES  Autosave attempts (3)
  LIFESIM_AUTOSAVE_BACKOFF  First retry interval ("100ms")
  LIFESIM_CORS_ORIGINS      Comma-separated allowed origins

Command-line flags in cmd/lifesim override these values.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

type Config struct {
	Addr            string        `env:"LIFESIM_ADDR" envDefault:":8080"`
	DBPath          string        `env:"LIFESIM_DB" envDefault:"lifesim.db"`
	LogLevel        string        `env:"LIFESIM_LOG_LEVEL" envDefault:"info"`
	Seed            uint64        `env:"LIFESIM_SEED" envDefault:"0"`
	AutosaveRetries uint          `env:"LIFESIM_AUTOSAVE_RETRIES" envDefault:"3"`
	AutosaveBackoff time.Duration `env:"LIFESIM_AUTOSAVE_BACKOFF" envDefault:"100ms"`
	CORSOrigins     []string      `env:"LIFESIM_CORS_ORIGINS" envSeparator:","`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
