package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mediator/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/mediator"
	configFileName = "mediator.yaml"
)

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// ConfigFilePath returns the location of mediator.yaml inside configPath.
// A configPath naming a file is returned unchanged.
func ConfigFilePath(configPath string) string {
	if filepath.Ext(configPath) == ".yaml" || filepath.Ext(configPath) == ".yml" {
		return configPath
	}
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads configuration from the specified directory (or file),
// starting from the defaults. A missing file is not an error.
func LoadConfig(configPath string) (MediatorConfig, error) {
	configFilePath := ConfigFilePath(configPath)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No %s found at %s, using defaults", configFileName, configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading %s: %s", configFilePath, err)
		return MediatorConfig{}, NewConfigurationErrorWithDetails(
			configFilePath, filepath.Base(configFilePath), ErrorTypeIO,
			"cannot read configuration file", err.Error(),
			[]string{"Check that the path is a readable file"},
		)
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		// config malformed
		return MediatorConfig{}, NewConfigurationErrorWithDetails(
			configFilePath, filepath.Base(configFilePath), ErrorTypeParse,
			"malformed configuration file", err.Error(),
			[]string{"Check the YAML syntax", "Durations need a unit, e.g. 5s"},
		)
	}
	if err := Validate(config, configFilePath); err != nil {
		return MediatorConfig{}, err
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}
