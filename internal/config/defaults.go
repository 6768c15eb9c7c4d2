package config

import (
	"time"

	"mediator/internal/backend"
	"mediator/internal/pathquery"
)

const (
	// DefaultStatusPath is the status file of the managed element.
	DefaultStatusPath = "/usr/src/OpenYuma/microwave-model-status.xml"

	// DefaultRefreshInterval is how often the status document is reloaded.
	DefaultRefreshInterval = 5 * time.Second

	// DefaultMetricsAddress is the listen address of the metrics endpoint.
	DefaultMetricsAddress = ":9464"
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() MediatorConfig {
	return MediatorConfig{
		Status: StatusConfig{
			Driver:          string(backend.DriverFilesystem),
			Path:            DefaultStatusPath,
			RootSegment:     pathquery.DefaultRoot,
			RefreshInterval: DefaultRefreshInterval,
			Watch:           false,
		},
		Metrics: MetricsConfig{
			Enabled: false, // Requires explicit enablement
			Address: DefaultMetricsAddress,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
