package config

import (
	"fmt"
	"net"
	"strings"

	"mediator/internal/backend"
	"mediator/pkg/logging"
)

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

var drivers = []string{
	string(backend.DriverFilesystem),
	string(backend.DriverMemory),
	string(backend.DriverS3),
}

// Validate checks cfg and returns a ConfigurationErrorCollection holding
// every problem found, or nil.
func Validate(cfg MediatorConfig, filePath string) error {
	var errs ConfigurationErrorCollection
	add := func(field string, err error, suggestions ...string) {
		ce := NewConfigurationError(filePath, field, ErrorTypeValidation, err.Error())
		ce.Suggestions = suggestions
		errs.Add(ce)
	}

	st := cfg.Status
	if err := ValidateOneOf(st.Driver, drivers); err != nil {
		add("status.driver", err)
	}
	switch backend.Driver(st.Driver) {
	case backend.DriverFilesystem:
		if err := ValidateRequired(st.Path); err != nil {
			add("status.path", err, "Set status.path to the status XML file")
		}
	case backend.DriverS3:
		if err := ValidateRequired(st.S3.Bucket); err != nil {
			add("status.s3.bucket", err, "Set status.s3.bucket or MEDIATOR_STATUS_S3_BUCKET")
		}
		if err := ValidateRequired(st.S3.Key); err != nil {
			add("status.s3.key", err, "Set status.s3.key or MEDIATOR_STATUS_S3_KEY")
		}
	}
	if st.Watch && backend.Driver(st.Driver) != backend.DriverFilesystem {
		add("status.watch", fmt.Errorf("is only supported by the fs driver"), "Set status.watch to false")
	}
	if !strings.HasPrefix(st.RootSegment, "/") || strings.ContainsAny(st.RootSegment, "[]'\" ") {
		add("status.rootSegment", fmt.Errorf("must be an absolute element path such as /status"))
	}
	if st.RefreshInterval <= 0 {
		add("status.refreshInterval", fmt.Errorf("must be positive"), "Use a duration such as 5s")
	}

	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Address); err != nil {
			add("metrics.address", fmt.Errorf("is not a host:port address"), "Use a listen address such as :9464")
		}
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		add("logging.level", err, "Use debug, info, warn or error")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
