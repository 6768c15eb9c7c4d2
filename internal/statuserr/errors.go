// Package statuserr defines the error taxonomy shared by the status store,
// the path builder and the tree initializer.
//
// Every error returned by those packages wraps exactly one of the sentinels
// below, so callers classify failures with errors.Is (or the Is* helpers)
// regardless of how much context was added on the way up.
package statuserr

import (
	"errors"
	"fmt"
)

var (
	// ErrQuery means a path expression could not be compiled or evaluated.
	ErrQuery = errors.New("query error")

	// ErrResolution means a module, namespace prefix, list key or path segment
	// could not be resolved while building or resolving a path.
	ErrResolution = errors.New("resolution error")

	// ErrAlloc means a node could not be allocated or attached.
	ErrAlloc = errors.New("allocation error")

	// ErrAssign means a value could not be assigned to a node, for example
	// because it does not parse as the leaf's declared type.
	ErrAssign = errors.New("assignment error")

	// ErrIO means the backing resource could not be read or written.
	ErrIO = errors.New("io error")

	// ErrBufferOverflow means a built path exceeded its configured length cap.
	ErrBufferOverflow = errors.New("buffer overflow")
)

// Query wraps err as a query failure for the given path.
func Query(path string, err error) error {
	return fmt.Errorf("%w: path %q: %w", ErrQuery, path, err)
}

// Resolution returns a resolution failure with a formatted message.
func Resolution(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrResolution, fmt.Sprintf(format, args...))
}

// Alloc returns an allocation failure with a formatted message.
func Alloc(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAlloc, fmt.Sprintf(format, args...))
}

// Assign returns an assignment failure with a formatted message.
func Assign(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAssign, fmt.Sprintf(format, args...))
}

// IO wraps err as a backing resource failure for the given operation.
func IO(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

// BufferOverflow reports that a built path grew past limit bytes.
func BufferOverflow(limit int) error {
	return fmt.Errorf("%w: path exceeds %d bytes", ErrBufferOverflow, limit)
}

// IsQuery reports whether err is or wraps ErrQuery.
func IsQuery(err error) bool { return errors.Is(err, ErrQuery) }

// IsResolution reports whether err is or wraps ErrResolution.
func IsResolution(err error) bool { return errors.Is(err, ErrResolution) }

// IsAlloc reports whether err is or wraps ErrAlloc.
func IsAlloc(err error) bool { return errors.Is(err, ErrAlloc) }

// IsAssign reports whether err is or wraps ErrAssign.
func IsAssign(err error) bool { return errors.Is(err, ErrAssign) }

// IsIO reports whether err is or wraps ErrIO.
func IsIO(err error) bool { return errors.Is(err, ErrIO) }

// IsBufferOverflow reports whether err is or wraps ErrBufferOverflow.
func IsBufferOverflow(err error) bool { return errors.Is(err, ErrBufferOverflow) }
