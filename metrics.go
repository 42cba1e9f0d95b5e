package roamauth

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a single counter or histogram tracked by [Metrics].
type MetricID uint16

// Metric identifiers for the session lifecycle and the request gateway.
const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricSignupSuccess
	MetricSignupFailure
	MetricOTPSuccess
	MetricOTPFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricRefreshCoalesced
	MetricLogout
	MetricSessionHydrated
	MetricSessionRepaired
	MetricSessionCleared
	MetricRequestAuthorized
	MetricRequestUnauthenticated
	MetricRequestLatency

	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricLoginSuccess:           "login_success",
	MetricLoginFailure:           "login_failure",
	MetricSignupSuccess:          "signup_success",
	MetricSignupFailure:          "signup_failure",
	MetricOTPSuccess:             "otp_success",
	MetricOTPFailure:             "otp_failure",
	MetricRefreshSuccess:         "refresh_success",
	MetricRefreshFailure:         "refresh_failure",
	MetricRefreshCoalesced:       "refresh_coalesced",
	MetricLogout:                 "logout",
	MetricSessionHydrated:        "session_hydrated",
	MetricSessionRepaired:        "session_repaired",
	MetricSessionCleared:         "session_cleared",
	MetricRequestAuthorized:      "request_authorized",
	MetricRequestUnauthenticated: "request_unauthenticated",
	MetricRequestLatency:         "request_latency",
}

// String returns the stable wire name for the metric.
func (id MetricID) String() string {
	if id >= metricIDCount {
		return "unknown"
	}
	return metricNames[id]
}

const cacheLineSize = 64

// paddedCounter occupies a full cache line so adjacent counters never
// false-share under concurrent increments.
type paddedCounter struct {
	value atomic.Uint64
	_     [cacheLineSize - 8]byte
}

// histogramBuckets are upper bounds in milliseconds; the last bucket is
// unbounded.
var histogramBuckets = [...]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	1 * time.Second,
}

const bucketCount = len(histogramBuckets) + 1

type histogram struct {
	buckets [bucketCount]paddedCounter
}

func bucketIndex(d time.Duration) int {
	for i, bound := range histogramBuckets {
		if d <= bound {
			return i
		}
	}
	return bucketCount - 1
}

// Metrics tracks lock-free counters and optional latency histograms for the
// client. All methods tolerate a nil receiver and are safe for concurrent
// use.
type Metrics struct {
	enabled        bool
	latencyEnabled bool

	counters   [metricIDCount]paddedCounter
	histograms map[MetricID]*histogram
}

// MetricsSnapshot is a point-in-time copy of all counters and histogram
// bucket totals.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}

	m := &Metrics{
		enabled:        true,
		latencyEnabled: cfg.EnableLatencyHistograms,
	}
	if m.latencyEnabled {
		m.histograms = map[MetricID]*histogram{
			MetricRequestLatency: {},
		}
	}
	return m
}

// Inc increments a counter. No-op when metrics are disabled.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].value.Add(1)
}

// Value returns the current value of a counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= metricIDCount {
		return 0
	}
	return m.counters[id].value.Load()
}

// LatencyEnabled reports whether latency histograms are being recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.latencyEnabled
}

// Observe records a duration into the metric's histogram. No-op unless
// latency histograms were enabled at construction.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.latencyEnabled {
		return
	}
	h, ok := m.histograms[id]
	if !ok {
		return
	}
	h.buckets[bucketIndex(d)].value.Add(1)
}

// Snapshot copies every counter and histogram. Buckets are read one atomic
// load at a time, so a snapshot taken under concurrent writes is internally
// consistent per counter, not across counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, metricIDCount),
		Histograms: map[MetricID][]uint64{},
	}
	if m == nil || !m.enabled {
		return snap
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].value.Load()
	}
	for id, h := range m.histograms {
		buckets := make([]uint64, bucketCount)
		for i := range h.buckets {
			buckets[i] = h.buckets[i].value.Load()
		}
		snap.Histograms[id] = buckets
	}
	return snap
}
