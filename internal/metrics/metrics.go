// Package metrics provides Prometheus metrics for the convergence engine
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "convergence"

// Metrics holds all Prometheus collectors for the application
type Metrics struct {
	MatchupsProcessed *prometheus.CounterVec
	MatchupErrors     *prometheus.CounterVec
	PicksGenerated    *prometheus.CounterVec
	PicksRejected     *prometheus.CounterVec
	StaleLines        *prometheus.CounterVec
	PicksGraded       *prometheus.CounterVec
	RunDuration       *prometheus.HistogramVec
	ConvergenceScore  *prometheus.HistogramVec
	RatingCacheHits   prometheus.Counter
	RatingCacheMisses prometheus.Counter
	LastRunTimestamp  *prometheus.GaugeVec
}

// New creates and registers all metrics with the given registerer
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MatchupsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matchups_processed_total",
			Help:      "Total matchups evaluated by the pick engine",
		}, []string{"sport", "market"}),

		MatchupErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matchup_errors_total",
			Help:      "Total matchups skipped due to evaluation errors",
		}, []string{"sport", "market"}),

		PicksGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_generated_total",
			Help:      "Total published picks by tier",
		}, []string{"sport", "market", "tier"}),

		PicksRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_rejected_total",
			Help:      "Total candidate picks rejected by the quality gates",
		}, []string{"sport", "market"}),

		StaleLines: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_lines_total",
			Help:      "Total matchups skipped for stale market lines",
		}, []string{"sport"}),

		PicksGraded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_graded_total",
			Help:      "Total picks settled by result",
		}, []string{"sport", "result"}),

		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of pick generation runs",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"sport"}),

		ConvergenceScore: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_distribution",
			Help:      "Distribution of convergence scores across evaluated matchups",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}, []string{"sport", "market"}),

		RatingCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_cache_hits_total",
			Help:      "Rating snapshot cache hits",
		}),

		RatingCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_cache_misses_total",
			Help:      "Rating snapshot cache misses",
		}),

		LastRunTimestamp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed generation run",
		}, []string{"sport"}),
	}
}
