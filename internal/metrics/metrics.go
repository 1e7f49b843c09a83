package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder tracks upstream and cache behaviour with Prometheus collectors.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	cacheTotal    *prometheus.CounterVec
	buildDuration prometheus.Histogram
}

// New creates a Recorder registered against reg. Passing a dedicated registry
// keeps tests from colliding on the default one.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		fetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitcoinpro_upstream_fetches_total",
				Help: "Upstream fetch attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		cacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitcoinpro_snapshot_cache_total",
				Help: "Snapshot cache lookups by result",
			},
			[]string{"result"},
		),
		buildDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bitcoinpro_snapshot_build_seconds",
				Help:    "Duration of full snapshot aggregations",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordFetch records one upstream fetch attempt. Outcome is "ok", "error",
// or "timeout". Nil receivers are no-ops so wiring stays optional in tests.
func (r *Recorder) RecordFetch(source, outcome string) {
	if r == nil {
		return
	}
	r.fetchesTotal.WithLabelValues(source, outcome).Inc()
}

// RecordCache records one cache lookup result: "hit", "miss", or "shared".
func (r *Recorder) RecordCache(result string) {
	if r == nil {
		return
	}
	r.cacheTotal.WithLabelValues(result).Inc()
}

// RecordBuild records the duration of one full aggregation in seconds.
func (r *Recorder) RecordBuild(seconds float64) {
	if r == nil {
		return
	}
	r.buildDuration.Observe(seconds)
}
