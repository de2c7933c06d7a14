// Package prom exports filecache metrics to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openobserve/filecache/filecache"
)

// unknownLabel stands in for keys outside the recognized files/ prefix,
// which are accounted but carry no organization/stream attribution.
const unknownLabel = "unknown"

// Adapter implements filecache.Metrics and exports Prometheus
// counters/gauges. Safe for concurrent use; all Prometheus metric
// types are goroutine-safe.
type Adapter struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	spillFails   prometheus.Counter
	gcShortfalls prometheus.Counter
	cachedFiles  *prometheus.GaugeVec
	cachedBytes  *prometheus.GaugeVec
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		spillFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "spill_failures_total",
			Help:        "Evicted entries lost because the disk tier write failed",
			ConstLabels: constLabels,
		}),
		gcShortfalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "gc_shortfalls_total",
			Help:        "GC passes that ran out of victims before the release target",
			ConstLabels: constLabels,
		}),
		cachedFiles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "cached_files",
			Help:        "Resident files by organization and stream type",
			ConstLabels: constLabels,
		}, []string{"organization", "stream_type"}),
		cachedBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "cached_bytes",
			Help:        "Resident admission bytes by organization and stream type",
			ConstLabels: constLabels,
		}, []string{"organization", "stream_type"}),
	}
	reg.MustRegister(a.hits, a.misses, a.spillFails, a.gcShortfalls, a.cachedFiles, a.cachedBytes)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// FileAdded moves the per-stream gauges up on insert.
func (a *Adapter) FileAdded(org, streamType string, bytes int64) {
	org, streamType = labels(org, streamType)
	a.cachedFiles.WithLabelValues(org, streamType).Inc()
	a.cachedBytes.WithLabelValues(org, streamType).Add(float64(bytes))
}

// FileEvicted moves the per-stream gauges down on evict/remove.
func (a *Adapter) FileEvicted(org, streamType string, bytes int64) {
	org, streamType = labels(org, streamType)
	a.cachedFiles.WithLabelValues(org, streamType).Dec()
	a.cachedBytes.WithLabelValues(org, streamType).Sub(float64(bytes))
}

// SpillFailed counts an evicted entry lost to a disk tier failure.
func (a *Adapter) SpillFailed() { a.spillFails.Inc() }

// GCShortfall counts a gc pass that emptied the strategy early.
func (a *Adapter) GCShortfall() { a.gcShortfalls.Inc() }

func labels(org, streamType string) (string, string) {
	if org == "" {
		org = unknownLabel
	}
	if streamType == "" {
		streamType = unknownLabel
	}
	return org, streamType
}

// Compile-time check: ensure Adapter implements filecache.Metrics.
var _ filecache.Metrics = (*Adapter)(nil)
