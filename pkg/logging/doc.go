// Package logging provides the single-line diagnostic sink used across the
// mediator.
//
// It is a thin layer over Go's slog package. Every entry carries a subsystem
// tag so that store, refresher, watcher and CLI output can be filtered
// independently:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("StatusStore", "Loaded status document from %s", path)
//	logging.Debug("PathBuilder", "Built path %s", p)
//	logging.Warn("Watcher", "Change event dropped for %s", name)
//	logging.Error("Refresher", err, "Refresh failed, keeping previous document")
//
// # Subsystems
//
//   - Bootstrap: application initialization and startup
//   - ConfigLoader: configuration loading and validation
//   - StatusStore: document reads, writes and refreshes
//   - Refresher: the periodic background refresh loop
//   - Watcher: fsnotify-triggered refreshes
//   - Backend: backing resource drivers (fs, memory, s3)
//   - Mediator: value tree to status document bridging
//   - PathBuilder: canonical path construction
//   - TreeInit: value tree initialization
//   - Serve: the long running serve mode
//
// Calls made before InitForCLI are written to stderr unformatted rather than
// dropped. The package is safe for concurrent use.
package logging
