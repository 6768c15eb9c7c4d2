// Package backend provides the drivers for the resource that persists the
// status document: a local file, process memory or a single S3 object.
package backend

import (
	"context"
	"errors"
)

// Driver identifies a Resource implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
)

// ErrNotFound is returned by Load when the resource does not exist yet.
var ErrNotFound = errors.New("status resource not found")

// Resource is the well-known location holding the serialized status
// document. Load returns the full content; Store replaces it completely.
type Resource interface {
	Driver() Driver
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, data []byte) error
	// Describe returns a human readable location for logs.
	Describe() string
}
