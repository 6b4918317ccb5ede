package proxy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geoproxy_requests_total",
		Help: "Proxied geocoding requests by provider, operation and status.",
	}, []string{"provider", "operation", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geoproxy_request_duration_seconds",
		Help:    "Upstream round-trip duration by provider and operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "operation"})
)
