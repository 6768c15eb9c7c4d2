package config

import (
	"time"

	"mediator/internal/backend"
)

// MediatorConfig is the top-level configuration structure for the mediator.
type MediatorConfig struct {
	Status  StatusConfig  `yaml:"status"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// StatusConfig describes where the status document lives and how it is
// kept fresh.
type StatusConfig struct {
	Driver          string        `yaml:"driver"`
	Path            string        `yaml:"path"`
	RootSegment     string        `yaml:"rootSegment"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
	// Watch enables an fsnotify triggered refresh. Only the fs driver
	// supports it.
	Watch bool     `yaml:"watch"`
	S3    S3Config `yaml:"s3"`
}

// S3Config mirrors backend.S3Config for the YAML file.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Key             string `yaml:"key"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"pathStyle"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
}

// MetricsConfig controls the Prometheus endpoint served by `mediator serve`.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// LoggingConfig sets the log level. The --debug flag overrides it.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// BackendConfig converts the status section into the backend driver
// configuration.
func (s StatusConfig) BackendConfig() backend.Config {
	return backend.Config{
		Driver: backend.Driver(s.Driver),
		Path:   s.Path,
		S3: backend.S3Config{
			Bucket:          s.S3.Bucket,
			Key:             s.S3.Key,
			Region:          s.S3.Region,
			Endpoint:        s.S3.Endpoint,
			PathStyle:       s.S3.PathStyle,
			AccessKeyID:     s.S3.AccessKeyID,
			SecretAccessKey: s.S3.SecretAccessKey,
		},
	}
}
