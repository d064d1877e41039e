package devblog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the index counters. Each App owns its own registry so
// several Apps can live in one process (tests).
type Metrics struct {
	Registry *prometheus.Registry

	indexRuns     *prometheus.CounterVec
	indexDuration prometheus.Histogram
	indexedPosts  prometheus.Gauge
	postChanges   *prometheus.CounterVec
}

// NewMetrics registers the devblog collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		indexRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "devblog",
			Name:      "index_runs_total",
			Help:      "Content index runs by result.",
		}, []string{"result"}),
		indexDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "devblog",
			Name:      "index_duration_seconds",
			Help:      "Duration of content index runs.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		indexedPosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "devblog",
			Name:      "indexed_posts",
			Help:      "Posts in the index after the last run, drafts included.",
		}),
		postChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "devblog",
			Name:      "index_post_changes_total",
			Help:      "Posts touched by index runs by change kind.",
		}, []string{"change"}),
	}
	reg.MustRegister(
		m.indexRuns,
		m.indexDuration,
		m.indexedPosts,
		m.postChanges,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observeRun(run IndexRun) {
	result := "ok"
	if run.Error != "" {
		result = "error"
	}
	m.indexRuns.WithLabelValues(result).Inc()
	m.indexDuration.Observe(run.Duration().Seconds())
	m.postChanges.WithLabelValues("added").Add(float64(run.Added))
	m.postChanges.WithLabelValues("updated").Add(float64(run.Updated))
	m.postChanges.WithLabelValues("removed").Add(float64(run.Removed))
	m.postChanges.WithLabelValues("skipped").Add(float64(run.Skipped))
}
