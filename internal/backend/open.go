package backend

import (
	"context"
	"fmt"
	"os"

	"mediator/pkg/logging"
)

// Config selects and parameterizes a driver.
type Config struct {
	Driver Driver
	// Path is the status file for the fs driver.
	Path string
	S3   S3Config
}

// Open returns the Resource for cfg. MEDIATOR_STATUS_DRIVER and
// MEDIATOR_STATUS_PATH override the configured driver and path, and the s3
// driver additionally honours the variables documented on S3ConfigFromEnv.
func Open(ctx context.Context, cfg Config) (Resource, error) {
	driver := cfg.Driver
	if v := os.Getenv("MEDIATOR_STATUS_DRIVER"); v != "" {
		driver = Driver(v)
	}
	if driver == "" {
		driver = DriverFilesystem
	}
	logging.Debug("Backend", "Opening %s status driver", driver)
	switch driver {
	case DriverFilesystem:
		path := cfg.Path
		if v := os.Getenv("MEDIATOR_STATUS_PATH"); v != "" {
			path = v
		}
		return NewFile(path)
	case DriverMemory:
		return NewMemory(nil), nil
	case DriverS3:
		return NewS3(ctx, S3ConfigFromEnv(cfg.S3))
	default:
		return nil, fmt.Errorf("unknown status driver %q", driver)
	}
}
