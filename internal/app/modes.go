package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"mediator/pkg/logging"
)

// shutdownTimeout bounds the metrics server's graceful shutdown.
const shutdownTimeout = 5 * time.Second

// runServe keeps the status document fresh until ctx is cancelled or a
// SIGINT/SIGTERM is received.
//
// Behavior:
//   - Starts the refresher, which loads the document immediately
//   - Starts the watcher and the metrics endpoint when configured
//   - Notifies systemd once everything is up
//   - Blocks until shutdown and returns the first task error
func runServe(ctx context.Context, cfg *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return services.Refresher.Run(gctx)
	})

	if services.Watcher != nil {
		if err := services.Watcher.Start(gctx); err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("failed to watch status file: %w", err)
		}
		defer func() { _ = services.Watcher.Stop() }()
	}

	metricsCfg := cfg.MediatorConfig.Metrics
	if metricsCfg.Enabled {
		srv := &http.Server{
			Addr:              metricsCfg.Address,
			Handler:           metricsHandler(services.Registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logging.Info("Serve", "Serving metrics on %s/metrics", metricsCfg.Address)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	notify(daemon.SdNotifyReady)
	logging.Info("Serve", "Mediator running. Press Ctrl+C to stop.")

	g.Go(func() error {
		<-gctx.Done()
		notify(daemon.SdNotifyStopping)
		logging.Info("Serve", "--- Shutting down ---")
		services.Refresher.Stop()
		return nil
	})

	err := g.Wait()
	summary := services.Metrics.Summary()
	logging.Info("Serve", "Stopped after %d refreshes (%d failed), %d reads, %d writes",
		summary.Refreshes, summary.RefreshFailures, summary.Reads, summary.Writes)
	if info := services.Store.Info(); info.Loaded {
		logging.Info("Serve", "Last document generation %s from %s, loaded at %s",
			info.Generation, info.Source, info.LoadedAt.Format(time.RFC3339))
	}
	return err
}

// metricsHandler serves the registry at /metrics.
func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

func notify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.Warn("Serve", "sd_notify %q failed: %v", state, err)
		return
	}
	if sent {
		logging.Debug("Serve", "sd_notify %q sent", state)
	}
}
