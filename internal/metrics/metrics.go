package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_predictions_total",
			Help: "Total number of career predictions by method used",
		},
		[]string{"method"},
	)

	ModelOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_model_outcomes_total",
			Help: "Total number of model adapter calls by outcome status",
		},
		[]string{"status"},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lantern_scoring_duration_seconds",
			Help:    "Duration of engine operations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"operation"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)

	CatalogCareers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lantern_catalog_careers",
			Help: "Number of careers in the loaded catalog",
		},
	)
)
