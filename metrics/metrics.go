// Package metrics provides an optional Prometheus collector for runtime
// processing statistics. It is wired into the registry via
// runtime.Options.Metrics; a nil collector disables metrics entirely.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// newCounterVec creates a counter vec in the standard actormesh/runtime namespace.
func newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actormesh",
			Subsystem: "runtime",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// Collector tracks registry and processing statistics as Prometheus
// collectors and keeps an in-memory mirror so tests and callers can read a
// snapshot without scraping.
type Collector struct {
	mu sync.RWMutex

	// Prometheus collectors
	runtimesCreated    prometheus.Counter
	runtimesTerminated prometheus.Counter
	runtimesLive       prometheus.Gauge
	activitiesTotal    *prometheus.CounterVec
	processingSeconds  *prometheus.HistogramVec

	registerer prometheus.Registerer
	registered bool

	// In-memory mirror
	created    uint64
	terminated uint64
	processed  uint64
	failed     uint64
}

// Snapshot provides a point-in-time view of collected metrics.
type Snapshot struct {
	RuntimesCreated     uint64    `json:"runtimes_created"`
	RuntimesTerminated  uint64    `json:"runtimes_terminated"`
	RuntimesLive        uint64    `json:"runtimes_live"`
	ActivitiesProcessed uint64    `json:"activities_processed"`
	ActivitiesFailed    uint64    `json:"activities_failed"`
	CollectedAt         time.Time `json:"collected_at"`
}

// NewCollector creates a metrics collector. A nil registerer falls back to
// the Prometheus default registerer.
func NewCollector(registerer prometheus.Registerer) *Collector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Collector{
		registerer: registerer,
		runtimesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actormesh",
			Subsystem: "runtime",
			Name:      "created_total",
			Help:      "Total number of runtimes created",
		}),
		runtimesTerminated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actormesh",
			Subsystem: "runtime",
			Name:      "terminated_total",
			Help:      "Total number of runtimes terminated",
		}),
		runtimesLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "actormesh",
			Subsystem: "runtime",
			Name:      "live",
			Help:      "Current number of live runtimes",
		}),
		activitiesTotal: newCounterVec("activities_total",
			"Total number of activities processed, labeled by outcome",
			[]string{"runtime_id", "activity_type", "outcome"}),
		processingSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "actormesh",
				Subsystem: "runtime",
				Name:      "processing_duration_seconds",
				Help:      "Duration of reducer applications",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"runtime_id"},
		),
	}
}

// Register registers the Prometheus collectors. Safe to call multiple times.
func (c *Collector) Register() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registered {
		return nil
	}

	collectors := []prometheus.Collector{
		c.runtimesCreated,
		c.runtimesTerminated,
		c.runtimesLive,
		c.activitiesTotal,
		c.processingSeconds,
	}

	for _, col := range collectors {
		if err := c.registerer.Register(col); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	c.registered = true
	return nil
}

// RuntimeCreated records a successful create.
func (c *Collector) RuntimeCreated(string) {
	c.mu.Lock()
	c.created++
	c.mu.Unlock()
	c.runtimesCreated.Inc()
	c.runtimesLive.Inc()
}

// RuntimeTerminated records a successful terminate.
func (c *Collector) RuntimeTerminated(string) {
	c.mu.Lock()
	c.terminated++
	c.mu.Unlock()
	c.runtimesTerminated.Inc()
	c.runtimesLive.Dec()
}

// ActivityProcessed records one reducer application and its outcome.
func (c *Collector) ActivityProcessed(runtimeID, activityType string, dur time.Duration, err error) {
	outcome := "success"
	c.mu.Lock()
	if err != nil {
		outcome = "failure"
		c.failed++
	} else {
		c.processed++
	}
	c.mu.Unlock()

	c.activitiesTotal.WithLabelValues(runtimeID, activityType, outcome).Inc()
	c.processingSeconds.WithLabelValues(runtimeID).Observe(dur.Seconds())
}

// Snapshot returns a point-in-time copy of the in-memory counters.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		RuntimesCreated:     c.created,
		RuntimesTerminated:  c.terminated,
		RuntimesLive:        c.created - c.terminated,
		ActivitiesProcessed: c.processed,
		ActivitiesFailed:    c.failed,
		CollectedAt:         time.Now().UTC(),
	}
}
