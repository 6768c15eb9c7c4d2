package statusstore

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mediator/internal/statuserr"
	"mediator/pkg/logging"
)

// Operation names used as metric labels.
const (
	OpRead    = "read"
	OpReadAll = "read_all"
	OpWrite   = "write"
	OpRefresh = "refresh"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Metrics tracks store activity. Counters are exported to Prometheus and
// mirrored in plain totals so Summary can be logged without a scrape.
type Metrics struct {
	mu sync.RWMutex

	operations  *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastLoad    prometheus.Gauge
	generations prometheus.Counter

	totals          map[string]map[string]int64
	lastRefreshAt   time.Time
	lastLoadAt      time.Time
	lastRefreshFail time.Time
}

// NewMetrics registers the store metrics with reg. A nil reg gets a private
// registry, which keeps tests independent of each other.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mediator_status_operations_total",
			Help: "Total status store operations by operation and result",
		}, []string{"op", "result"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mediator_status_errors_total",
			Help: "Total status store errors by operation and error class",
		}, []string{"op", "class"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediator_status_operation_duration_seconds",
			Help:    "Status store operation duration in seconds, lock wait included",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"op"}),
		lastLoad: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mediator_status_last_load_timestamp_seconds",
			Help: "Unix time of the last successful document load",
		}),
		generations: factory.NewCounter(prometheus.CounterOpts{
			Name: "mediator_status_generations_total",
			Help: "Total documents swapped into the store by refresh or write",
		}),
		totals: make(map[string]map[string]int64),
	}
}

// observe records one finished operation.
func (m *Metrics) observe(op, result string, err error, started time.Time) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	if err != nil {
		m.errors.WithLabelValues(op, errorClass(err)).Inc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	byResult, ok := m.totals[op]
	if !ok {
		byResult = make(map[string]int64)
		m.totals[op] = byResult
	}
	byResult[result]++
	if op == OpRefresh {
		m.lastRefreshAt = time.Now()
		if err != nil {
			m.lastRefreshFail = m.lastRefreshAt
			logging.Warn("StatusStore", "Refresh failure recorded (failures: %d)", byResult[ResultError])
		}
	}
}

// loaded records a new document generation.
func (m *Metrics) loaded(at time.Time) {
	if m == nil {
		return
	}
	m.generations.Inc()
	m.lastLoad.Set(float64(at.Unix()))

	m.mu.Lock()
	m.lastLoadAt = at
	m.mu.Unlock()
}

// MetricsSummary is a point-in-time view of the store metrics.
type MetricsSummary struct {
	Reads             int64     `json:"reads"`
	ReadMisses        int64     `json:"read_misses"`
	ReadAlls          int64     `json:"read_alls"`
	Writes            int64     `json:"writes"`
	Refreshes         int64     `json:"refreshes"`
	Errors            int64     `json:"errors"`
	RefreshFailures   int64     `json:"refresh_failures"`
	LastRefreshAt     time.Time `json:"last_refresh_at,omitempty"`
	LastLoadAt        time.Time `json:"last_load_at,omitempty"`
	LastRefreshFailAt time.Time `json:"last_refresh_fail_at,omitempty"`
}

// Summary returns the current totals.
func (m *Metrics) Summary() MetricsSummary {
	if m == nil {
		return MetricsSummary{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := func(op string, results ...string) int64 {
		var n int64
		for _, r := range results {
			n += m.totals[op][r]
		}
		return n
	}

	s := MetricsSummary{
		Reads:             count(OpRead, ResultOK, ResultMiss, ResultError),
		ReadMisses:        count(OpRead, ResultMiss),
		ReadAlls:          count(OpReadAll, ResultOK, ResultMiss, ResultError),
		Writes:            count(OpWrite, ResultOK, ResultError),
		Refreshes:         count(OpRefresh, ResultOK, ResultError),
		RefreshFailures:   count(OpRefresh, ResultError),
		LastRefreshAt:     m.lastRefreshAt,
		LastLoadAt:        m.lastLoadAt,
		LastRefreshFailAt: m.lastRefreshFail,
	}
	for _, op := range []string{OpRead, OpReadAll, OpWrite, OpRefresh} {
		s.Errors += count(op, ResultError)
	}
	return s
}

func errorClass(err error) string {
	switch {
	case statuserr.IsQuery(err):
		return "query"
	case statuserr.IsIO(err):
		return "io"
	case statuserr.IsResolution(err):
		return "resolution"
	case statuserr.IsAlloc(err):
		return "alloc"
	case statuserr.IsAssign(err):
		return "assign"
	default:
		return "other"
	}
}
