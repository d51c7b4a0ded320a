package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesTotal     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_sharing", Name: "matches_total", Help: "Total successful nearest-rider matches"})
	MatchMissesTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_sharing", Name: "match_misses_total", Help: "Match attempts that found no candidate rider"})

	RidesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_sharing", Name: "rides_created_total", Help: "Total rides persisted through booking"})
	RideStatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_sharing", Name: "ride_status_updates_total", Help: "Ride status transitions applied"},
		[]string{"status"},
	)

	EventsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_sharing", Name: "ride_events_published_total", Help: "Ride lifecycle events published to Kafka"})

	ProxiedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_sharing", Name: "gateway_proxied_requests_total", Help: "Requests forwarded by the gateway"},
		[]string{"target", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_sharing", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ride_sharing",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
