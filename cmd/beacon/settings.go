package main

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// settings are the process-level options of the server, read from the
// environment.
type settings struct {
	ConfigPath   string     `env:"BEACON_CONFIG"    envDefault:"plugins/beacon/config.yml"`
	RegistryPath string     `env:"BEACON_REGISTRY"  envDefault:"plugins/beacon/tiles.db"`
	Operators    []string   `env:"BEACON_OPERATORS" envSeparator:","`
	LogLevel     slog.Level `env:"BEACON_LOG_LEVEL" envDefault:"info"`
}

// loadSettings parses the settings from the environment.
func loadSettings() (settings, error) {
	var s settings
	if err := env.Parse(&s); err != nil {
		return settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
