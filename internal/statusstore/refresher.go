package statusstore

import (
	"context"
	"sync"
	"time"

	"mediator/pkg/logging"
)

// DefaultRefreshInterval is the cadence of the background refresh.
const DefaultRefreshInterval = 5 * time.Second

// Refreshable is anything the Refresher can drive.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresher reloads the store immediately and then on every tick until it
// is stopped or its context is cancelled. Failed refreshes are logged and
// the store keeps serving the previous document.
type Refresher struct {
	mu sync.Mutex

	target   Refreshable
	interval time.Duration

	// trigger requests an early refresh; it holds at most one request.
	trigger chan struct{}

	// stopCh signals shutdown
	stopCh chan struct{}

	running bool
}

// NewRefresher creates a refresher for target. A non-positive interval
// uses DefaultRefreshInterval.
func NewRefresher(target Refreshable, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		target:   target,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled or Stop is called. It returns nil in
// both cases.
func (r *Refresher) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	stopCh := r.stopCh
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	logging.Info("Refresher", "Refreshing status document every %s", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx, "startup")
	for {
		select {
		case <-ctx.Done():
			logging.Info("Refresher", "Stopped: %v", ctx.Err())
			return nil
		case <-stopCh:
			logging.Info("Refresher", "Stopped")
			return nil
		case <-ticker.C:
			r.refresh(ctx, "tick")
		case <-r.trigger:
			r.refresh(ctx, "trigger")
		}
	}
}

// Trigger requests a refresh ahead of the next tick. It never blocks;
// requests made while one is already pending are merged.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
		logging.Debug("Refresher", "Refresh already pending, trigger merged")
	}
}

// Stop terminates Run. It is safe to call more than once.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-r.stopCh:
	default:
		close(r.stopCh)
	}
}

func (r *Refresher) refresh(ctx context.Context, reason string) {
	if err := r.target.Refresh(ctx); err != nil {
		logging.Error("Refresher", err, "Refresh (%s) failed, serving previous document", reason)
		return
	}
	logging.Debug("Refresher", "Refresh (%s) complete", reason)
}
