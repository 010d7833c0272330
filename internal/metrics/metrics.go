// Package metrics records extraction statistics in a Prometheus registry that
// can be dumped in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/huangsam/proneness/core/builder"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "proneness"

// Recorder holds the collectors of one process.
type Recorder struct {
	registry     *prometheus.Registry
	items        *prometheus.GaugeVec
	duration     *prometheus.GaugeVec
	cacheLookups *prometheus.CounterVec
}

// NewRecorder creates a Recorder on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "extraction_items",
			Help:      "Counts reported by the last extraction, by builder and item kind.",
		}, []string{"builder", "kind"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Wall time of the last extraction, by builder.",
		}, []string{"builder"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_cache_lookups_total",
			Help:      "Commit log cache lookups, by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(r.items, r.duration, r.cacheLookups)
	return r
}

// ObserveBuild records the statistics of one Build call.
func (r *Recorder) ObserveBuild(kind string, stats builder.Stats, elapsed time.Duration) {
	for name, v := range map[string]int{
		"histories":          stats.Histories,
		"versions":           stats.Versions,
		"chunks":             stats.Chunks,
		"fixed_chunks":       stats.FixedChunks,
		"rows":               stats.Rows,
		"labeled_rows":       stats.LabeledRows,
		"negative_fix_times": stats.NegativeFixTimes,
	} {
		r.items.WithLabelValues(kind, name).Set(float64(v))
	}
	r.duration.WithLabelValues(kind).Set(elapsed.Seconds())
}

// CacheLookup counts one commit cache lookup.
func (r *Recorder) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
