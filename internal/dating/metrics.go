// internal/dating/metrics.go

package dating

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dating_recommendation_requests_total",
			Help: "Total number of recommendation feeds served",
		},
		[]string{"tier"},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dating_compatibility_scores",
			Help:    "Distribution of compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	scoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dating_scoring_duration_seconds",
			Help:    "Time spent scoring a candidate pool",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	hotpicksGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dating_hotpicks_generated_total",
			Help: "Total number of hotpicks generated",
		},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dating_profile_cache_lookups_total",
			Help: "Profile cache lookups by result",
		},
		[]string{"result"},
	)

	wsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dating_websocket_connections",
			Help: "Open realtime connections",
		},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dating_events_published_total",
			Help: "Events handed to the hub by type",
		},
		[]string{"type"},
	)
)
