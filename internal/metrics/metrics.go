// Package metrics defines Prometheus metrics for the pricing engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pricing"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the last liveness probe succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the last readiness probe succeeded.",
	})
)

// Recommendation pass metrics.
var (
	RecommendationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommendation_duration_seconds",
		Help:      "Duration of full recommendation passes in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	RecommendationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Total recommendation rows produced.",
	})

	RecommendationNoOpsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendation_noops_total",
		Help:      "Total no-op rows emitted for products with insufficient history.",
	})

	TrainedModelUsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trained_model_used_total",
		Help:      "Recommendations served by a trained elasticity artifact.",
	})

	FallbackModelUsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_model_used_total",
		Help:      "Recommendations served by the per-run fallback fit.",
	})

	ProfitDeltaDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "profit_delta_distribution",
		Help:      "Distribution of expected profit deltas per recommendation.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
	})
)

// Training metrics.
var (
	TrainingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "training_duration_seconds",
		Help:      "Duration of training passes in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ModelsTrainedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "models_trained_total",
		Help:      "Total elasticity model artifacts written.",
	})
)

// Alert metrics.
var (
	AlertsFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Total number of alerts fired.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})
)
