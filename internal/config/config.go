// Copyright (c) 2025 Berik Ashimov

// Package config reads server settings from SUBNETLAB_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	ListenAddr   string `env:"SUBNETLAB_LISTEN_ADDR" envDefault:"0.0.0.0:8080"`
	DBPath       string `env:"SUBNETLAB_DB_PATH" envDefault:"./subnetlab.sqlite"`
	ScenarioFile string `env:"SUBNETLAB_SCENARIO_FILE"`
	LogLevel     string `env:"SUBNETLAB_LOG_LEVEL" envDefault:"info"`
	// Seed fixes the problem generator; 0 draws one from crypto/rand.
	Seed            int64         `env:"SUBNETLAB_SEED" envDefault:"0"`
	GinMode         string        `env:"SUBNETLAB_GIN_MODE" envDefault:"release"`
	SessionTTL      time.Duration `env:"SUBNETLAB_SESSION_TTL" envDefault:"24h"`
	ShutdownTimeout time.Duration `env:"SUBNETLAB_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadDotenv copies variables from the given files (".env" when none) into
// the environment without overriding what is already set. It reports
// whether a file was found.
func LoadDotenv(paths ...string) (bool, error) {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrap(err, "load dotenv")
	}
	return true, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("SUBNETLAB_LISTEN_ADDR is empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("SUBNETLAB_DB_PATH is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "SUBNETLAB_LOG_LEVEL")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return errors.Errorf("SUBNETLAB_GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SUBNETLAB_SESSION_TTL must be positive")
	}
	return nil
}

// Level is the parsed log level. Call after Validate.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
