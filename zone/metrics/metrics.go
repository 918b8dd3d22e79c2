// Package metrics exposes zone counters to Prometheus.
//
// The collector reads zone.Stats on every scrape, so nothing is recorded on
// the allocation path. A zone is not safe for concurrent use; hosts that
// scrape from another goroutine pass the lock that guards the zone with
// WithLocker.
package metrics

import (
	"io"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/joshuapare/zonekit/zone"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "zone"

// StatsSource is the part of a zone the collector reads.
type StatsSource interface {
	Stats() zone.Stats
}

type metric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(zone.Stats) float64
}

// Collector implements prometheus.Collector over a StatsSource.
type Collector struct {
	src     StatsSource
	mu      sync.Locker
	metrics []metric
}

// Option configures a Collector.
type Option func(*collectorConfig)

type collectorConfig struct {
	namespace   string
	constLabels prometheus.Labels
	mu          sync.Locker
}

// WithNamespace replaces DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(c *collectorConfig) { c.namespace = ns }
}

// WithConstLabels attaches labels to every metric, e.g. a zone name.
func WithConstLabels(l prometheus.Labels) Option {
	return func(c *collectorConfig) { c.constLabels = l }
}

// WithLocker makes Collect hold mu while it reads the zone.
func WithLocker(mu sync.Locker) Option {
	return func(c *collectorConfig) { c.mu = mu }
}

// NewCollector builds a collector for src.
func NewCollector(src StatsSource, opts ...Option) *Collector {
	cfg := collectorConfig{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(&cfg)
	}

	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(cfg.namespace, "", name), help, nil, cfg.constLabels)
	}
	counter := func(name, help string, v func(zone.Stats) float64) metric {
		return metric{desc: desc(name, help), kind: prometheus.CounterValue, value: v}
	}
	gauge := func(name, help string, v func(zone.Stats) float64) metric {
		return metric{desc: desc(name, help), kind: prometheus.GaugeValue, value: v}
	}

	return &Collector{
		src: src,
		mu:  cfg.mu,
		metrics: []metric{
			counter("malloc_calls_total", "Total Malloc calls.",
				func(s zone.Stats) float64 { return float64(s.MallocCalls) }),
			counter("free_calls_total", "Total Free calls.",
				func(s zone.Stats) float64 { return float64(s.FreeCalls) }),
			counter("change_tag_calls_total", "Total ChangeTag calls.",
				func(s zone.Stats) float64 { return float64(s.ChangeTagCalls) }),
			counter("free_tags_calls_total", "Total FreeTags calls.",
				func(s zone.Stats) float64 { return float64(s.FreeTagsCalls) }),
			counter("evictions_total", "Purgeable blocks reclaimed by Malloc.",
				func(s zone.Stats) float64 { return float64(s.Evictions) }),
			counter("evicted_bytes_total", "Bytes reclaimed by eviction, headers included.",
				func(s zone.Stats) float64 { return float64(s.EvictedBytes) }),
			counter("splits_total", "Blocks split during Malloc.",
				func(s zone.Stats) float64 { return float64(s.Splits) }),
			counter("coalesces_total", "Free blocks merged into a neighbour.",
				func(s zone.Stats) float64 { return float64(s.Coalesces) }),
			counter("scan_steps_total", "Blocks examined by Malloc searches.",
				func(s zone.Stats) float64 { return float64(s.ScanSteps) }),
			counter("allocated_bytes_total", "Bytes handed out by Malloc, headers included.",
				func(s zone.Stats) float64 { return float64(s.BytesAllocated) }),
			counter("freed_bytes_total", "Bytes released by Free, FreeTags and eviction.",
				func(s zone.Stats) float64 { return float64(s.BytesFreed) }),
			gauge("arena_bytes", "Size of the managed arena.",
				func(s zone.Stats) float64 { return float64(s.Size) }),
			gauge("blocks", "Blocks in the directory.",
				func(s zone.Stats) float64 { return float64(s.Blocks) }),
			gauge("free_blocks", "Free blocks in the directory.",
				func(s zone.Stats) float64 { return float64(s.FreeBlocks) }),
			gauge("free_bytes", "Bytes in free blocks.",
				func(s zone.Stats) float64 { return float64(s.FreeBytes) }),
			gauge("purgeable_bytes", "Bytes in allocated purgeable blocks.",
				func(s zone.Stats) float64 { return float64(s.PurgeableBytes) }),
			gauge("largest_free_bytes", "Size of the largest free block.",
				func(s zone.Stats) float64 { return float64(s.LargestFree) }),
		},
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.mu != nil {
		c.mu.Lock()
	}
	s := c.src.Stats()
	if c.mu != nil {
		c.mu.Unlock()
	}
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(s))
	}
}

// NewRegistry returns a registry holding only c.
func NewRegistry(c *Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(c)
	return reg
}

// Handler serves the metrics in g over HTTP.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// WriteText writes everything g gathers in the Prometheus text exposition
// format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	if closer, ok := enc.(expfmt.Closer); ok {
		return closer.Close()
	}
	return nil
}
