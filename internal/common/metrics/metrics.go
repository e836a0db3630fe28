package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// NicheRecommendations counts how often a niche came out on top.
	NicheRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "niche_recommendations_total",
			Help: "Total number of times a niche was the top recommendation",
		},
		[]string{"niche"},
	)

	NicheScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "niche_score",
			Help:    "Distribution of compatibility scores per niche",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"niche"},
	)

	CatalogNiches = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_niches",
			Help: "Number of niches in the loaded catalog",
		},
		[]string{"source"},
	)
)

// ObserveRanking records the score of every ranked niche and counts the top one.
func ObserveRanking(scores map[string]float64, top string) {
	for niche, score := range scores {
		NicheScore.WithLabelValues(niche).Observe(score)
	}
	if top != "" {
		NicheRecommendations.WithLabelValues(top).Inc()
	}
}
