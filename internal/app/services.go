package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mediator/internal/backend"
	"mediator/internal/mediator"
	"mediator/internal/statusstore"
	"mediator/pkg/logging"
)

// Services holds every component built during bootstrap.
type Services struct {
	// Resource is the backing resource of the status document.
	Resource backend.Resource

	// Store owns the parsed status document.
	Store *statusstore.Store

	// Metrics records store operations into Registry.
	Metrics  *statusstore.Metrics
	Registry *prometheus.Registry

	// Mediator bridges value trees and the store.
	Mediator *mediator.Mediator

	// Refresher reloads the store in serve mode.
	Refresher *statusstore.Refresher

	// Watcher is nil unless status.watch is set and the fs driver is used.
	Watcher *statusstore.Watcher
}

// InitializeServices opens the backend and builds the store and its
// collaborators. Nothing is started and the document is not loaded yet.
func InitializeServices(ctx context.Context, cfg *Config) (*Services, error) {
	if cfg.MediatorConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	statusCfg := cfg.MediatorConfig.Status

	res, err := backend.Open(ctx, statusCfg.BackendConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open status backend: %w", err)
	}
	logging.Info("Bootstrap", "Status document backend: %s (%s)", res.Describe(), res.Driver())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := statusstore.NewMetrics(reg)

	store := statusstore.New(res, statusstore.Options{
		RootSegment: statusCfg.RootSegment,
		Metrics:     metrics,
	})
	refresher := statusstore.NewRefresher(store, statusCfg.RefreshInterval)

	var watcher *statusstore.Watcher
	if statusCfg.Watch {
		if file, ok := res.(*backend.File); ok {
			watcher = statusstore.NewWatcher(file.Path(), statusstore.DefaultDebounce, refresher.Trigger)
		} else {
			logging.Warn("Bootstrap", "status.watch ignored: driver %s has no file to watch", res.Driver())
		}
	}

	return &Services{
		Resource:  res,
		Store:     store,
		Metrics:   metrics,
		Registry:  reg,
		Mediator:  mediator.New(store),
		Refresher: refresher,
		Watcher:   watcher,
	}, nil
}
