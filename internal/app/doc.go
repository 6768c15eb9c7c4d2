// Package app provides application bootstrap and lifecycle management for the mediator.
//
// It wires the configuration, the status document backend, the document
// store and its background refresh into one Application that the CLI
// commands drive.
//
// # Architecture Overview
//
// The package has four components:
//
// 1. **Bootstrap (`bootstrap.go`)**: Application initialization and lifecycle entry point
// 2. **Configuration (`config.go`)**: Runtime settings passed in from the command line
// 3. **Services (`services.go`)**: Backend, store, metrics, mediator, refresher and watcher construction
// 4. **Modes (`modes.go`)**: The long running serve mode
//
// ## Bootstrap Sequence
//
//  1. **Logging**: --debug selects debug level, otherwise logging.level from the file
//  2. **Configuration**: mediator.yaml from --config (or ~/.config/mediator), defaults when absent
//  3. **Overrides**: --status-file forces the fs driver on the given file
//  4. **Services**: backend.Open, statusstore.New with metrics, mediator.New
//
// One-shot commands (get, list, set, path) stop after bootstrap and use the
// services directly. The store loads the document lazily on first access.
//
// ## Serve Mode (modes.go)
//
// Run starts, under one errgroup:
//   - the Refresher, reloading the document every status.refreshInterval
//   - the Watcher, when status.watch is set and the fs driver is in use
//   - the /metrics endpoint, when metrics.enabled is set
//
// Readiness and shutdown are reported to systemd through sd_notify. SIGINT
// and SIGTERM cancel the run context; every task then returns and Run
// reports the first error, if any.
//
// # Usage
//
//	cfg := app.NewConfig(false, "/etc/mediator", "")
//	application, err := app.NewApplication(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("bootstrap failed: %w", err)
//	}
//	return application.Run(ctx)
package app
