// Package gcmetrics exports collector/allocator instrumentation through
// Prometheus client_golang, the way the teacher repo exposes its own
// runtime counters. It is an ambient concern (observability), not a
// feature bound by spec.md's non-goals.
package gcmetrics

import "github.com/prometheus/client_golang/prometheus"

// Collector wraps the gauges/counters a Runtime updates across its
// lifetime. A nil *Collector is safe to call methods on (all become
// no-ops), so wiring metrics is opt-in.
type Collector struct {
	generationCells  *prometheus.GaugeVec
	liveCells        prometheus.Gauge
	collections      *prometheus.CounterVec
	collectionMillis prometheus.Histogram
	rehashes         prometheus.Counter
}

// New creates and registers a Collector against reg. Passing nil uses the
// default Prometheus registry.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		generationCells: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "colibri",
			Name:      "generation_cells",
			Help:      "Cells currently allocated in a generation.",
		}, []string{"generation"}),
		liveCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "colibri",
			Name:      "live_cells",
			Help:      "Total live cells across all generations after the last sweep.",
		}),
		collections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colibri",
			Name:      "collections_total",
			Help:      "Number of mark-promote-sweep cycles run, by level.",
		}, []string{"level"}),
		collectionMillis: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "colibri",
			Name:      "collection_duration_milliseconds",
			Help:      "Wall-clock duration of a collection cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16),
		}),
		rehashes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "colibri",
			Name:      "hashmap_rehashes_total",
			Help:      "Number of hash map bucket-array rehashes performed.",
		}),
	}
	reg.MustRegister(c.generationCells, c.liveCells, c.collections, c.collectionMillis, c.rehashes)
	return c
}

func (c *Collector) SetGenerationCells(gen int, cells int) {
	if c == nil {
		return
	}
	c.generationCells.WithLabelValues(itoa(gen)).Set(float64(cells))
}

func (c *Collector) SetLiveCells(n int) {
	if c == nil {
		return
	}
	c.liveCells.Set(float64(n))
}

func (c *Collector) ObserveCollection(level int, ms float64) {
	if c == nil {
		return
	}
	c.collections.WithLabelValues(itoa(level)).Inc()
	c.collectionMillis.Observe(ms)
}

func (c *Collector) IncRehash() {
	if c == nil {
		return
	}
	c.rehashes.Inc()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
