package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID uint16

const (
	// MetricGateAllowed counts navigation gate evaluations that allowed.
	MetricGateAllowed MetricID = iota
	// MetricGateDenied counts navigation gate evaluations that denied.
	MetricGateDenied
	// MetricGateRedirected counts navigation gate evaluations that redirected.
	MetricGateRedirected
	// MetricNavigationSuperseded counts gate results discarded because a
	// newer navigation superseded them.
	MetricNavigationSuperseded
	// MetricRoleWaitFailed counts permission-gate evaluations whose role
	// resolution did not complete.
	MetricRoleWaitFailed
	// MetricTenantHeaderAttached counts requests that received the tenant
	// context header.
	MetricTenantHeaderAttached
	// MetricBearerAttached counts requests that received a bearer token.
	MetricBearerAttached
	// MetricUnauthorizedFullLogout counts 401 responses handled with a full
	// logout command.
	MetricUnauthorizedFullLogout
	// MetricUnauthorizedLocalClear counts 401 responses handled with a
	// local-only clear.
	MetricUnauthorizedLocalClear
	// MetricConnectionFailure counts network-level transport failures.
	MetricConnectionFailure
	// MetricServiceUnavailable counts 503 responses surfaced to the user.
	MetricServiceUnavailable
	// MetricErrorNotified counts user-facing error notifications.
	MetricErrorNotified
	// MetricVisibilityShown counts visibility bindings toggled to shown.
	MetricVisibilityShown
	// MetricVisibilityHidden counts visibility bindings toggled to hidden.
	MetricVisibilityHidden
	// MetricGateLatency is the gate evaluation latency histogram.
	MetricGateLatency

	// MetricIDCount is the number of metric IDs.
	MetricIDCount
)

// Histogram bucket upper bounds in seconds; the last bucket is +Inf.
var histogramBounds = [bucketCount - 1]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

const bucketCount = 8

// Config controls which parts of the metrics system are active.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// Metrics holds atomic counters and optional latency histograms. All
// operations are no-ops when disabled. A nil *Metrics is valid and inert.
type Metrics struct {
	enabled bool
	latency bool

	counters [MetricIDCount]atomic.Uint64
	buckets  [MetricIDCount][bucketCount]atomic.Uint64
}

// New creates a Metrics instance configured by cfg.
func New(cfg Config) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
		latency: cfg.Enabled && cfg.EnableLatency,
	}
}

// Inc increments the counter identified by id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Value returns the current value of the counter identified by id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= MetricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// Observe records a latency observation in the histogram identified by id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.latency || id >= MetricIDCount {
		return
	}
	seconds := d.Seconds()
	idx := bucketCount - 1
	for i, bound := range histogramBounds {
		if seconds <= bound {
			idx = i
			break
		}
	}
	m.buckets[id][idx].Add(1)
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// Snapshot returns a consistent-enough copy of all counters and histogram
// buckets. Individual loads are atomic; the snapshot as a whole is not.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   make(map[MetricID]uint64, MetricIDCount),
		Histograms: make(map[MetricID][]uint64),
	}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	if m.latency {
		buckets := make([]uint64, bucketCount)
		for i := range buckets {
			buckets[i] = m.buckets[MetricGateLatency][i].Load()
		}
		snap.Histograms[MetricGateLatency] = buckets
	}
	return snap
}
