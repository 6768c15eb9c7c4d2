package app

import (
	"io"

	"mediator/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// Custom configuration path (optional). Defaults to ~/.config/mediator.
	ConfigPath string

	// StatusFile, when set, forces the fs driver on this file.
	StatusFile string

	// LogOutput receives log lines. Nil means stderr.
	LogOutput io.Writer

	// Loaded configuration. NewApplication loads it when nil.
	MediatorConfig *config.MediatorConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath, statusFile string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		StatusFile: statusFile,
	}
}
