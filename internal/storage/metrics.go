package storage

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Store-level Prometheus metrics. All metrics carry a "store" label whose
// value is the Group set in ProviderConfig.
var (
	// HitsTotal counts reads that found a value.
	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_hits_total",
			Help: "Total number of preference store reads that found a value.",
		},
		[]string{"store"},
	)

	// MissesTotal counts reads of absent keys.
	MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_misses_total",
			Help: "Total number of preference store reads of absent keys.",
		},
		[]string{"store"},
	)

	// WriteErrorsTotal counts failed Set and Delete calls.
	WriteErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_write_errors_total",
			Help: "Total number of failed preference store writes.",
		},
		[]string{"store"},
	)

	// EvictionsTotal counts keys evicted by a bounded provider.
	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_evictions_total",
			Help: "Total number of keys evicted from the preference store.",
		},
		[]string{"store"},
	)
)

func init() {
	prometheus.MustRegister(
		HitsTotal,
		MissesTotal,
		WriteErrorsTotal,
		EvictionsTotal,
	)
}

// entriesCollector reports the key count of one store at scrape time.
type entriesCollector struct {
	desc    *prometheus.Desc
	lenFunc func(context.Context) int
}

func (c *entriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *entriesCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(c.lenFunc(ctx)))
}

var (
	entriesCollectorMu sync.Mutex
	entriesCollectors  = make(map[string]*entriesCollector)
	// entriesReg is the Prometheus registerer used for entries collectors.
	// Exposed as a variable so tests can substitute an isolated registry.
	entriesReg prometheus.Registerer = prometheus.DefaultRegisterer
)

// registerEntriesCollector registers a per-group entries collector. A
// collector already registered for the group is replaced.
func registerEntriesCollector(group string, lenFunc func(context.Context) int) *entriesCollector {
	desc := prometheus.NewDesc(
		"storage_entries",
		"Current number of keys in the preference store.",
		nil,
		prometheus.Labels{"store": group},
	)
	c := &entriesCollector{desc: desc, lenFunc: lenFunc}

	entriesCollectorMu.Lock()
	defer entriesCollectorMu.Unlock()

	if old, ok := entriesCollectors[group]; ok {
		entriesReg.Unregister(old)
	}
	entriesCollectors[group] = c
	_ = entriesReg.Register(c)
	return c
}

func unregisterEntriesCollector(group string) {
	entriesCollectorMu.Lock()
	defer entriesCollectorMu.Unlock()

	if c, ok := entriesCollectors[group]; ok {
		entriesReg.Unregister(c)
		delete(entriesCollectors, group)
	}
}
