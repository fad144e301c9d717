// Package observability exposes Prometheus metrics for the intelligence
// pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's instrumentation.
type Metrics struct {
	PipelineRuns     *prometheus.CounterVec
	PipelineFailures *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	CacheLookups     *prometheus.CounterVec
	BackgroundRuns   prometheus.Counter
	ClassifierFalls  prometheus.Counter
}

// New registers the pipeline metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roadwatch_pipeline_runs_total",
			Help: "Completed pipeline runs by target kind.",
		}, []string{"kind"}),
		PipelineFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roadwatch_pipeline_failures_total",
			Help: "Pipeline runs aborted by stage.",
		}, []string{"stage"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "roadwatch_pipeline_duration_seconds",
			Help:    "Wall time of full pipeline runs.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roadwatch_cache_lookups_total",
			Help: "Cache lookups by outcome (fresh, stale, miss).",
		}, []string{"outcome"}),
		BackgroundRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "roadwatch_background_refreshes_total",
			Help: "Background refreshes triggered by stale cache hits.",
		}),
		ClassifierFalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "roadwatch_classifier_fallbacks_total",
			Help: "Runs that fell back to raw reports after classifier failure.",
		}),
	}
}

// NewDefault registers on the default Prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
