// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dramahub_provider_requests_total",
		Help: "Upstream provider calls by operation and outcome",
	}, []string{"operation", "result"})

	providerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dramahub_provider_request_duration_seconds",
		Help:    "Upstream provider call latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2.0, 10), // 50ms .. ~25s
	}, []string{"operation"})

	gatewayErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dramahub_gateway_errors_total",
		Help: "Gateway responses that carried an error envelope, by operation and kind",
	}, []string{"operation", "kind"})

	responseCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dramahub_response_cache_total",
		Help: "Response cache lookups by operation and outcome (hit, miss, shared)",
	}, []string{"operation", "outcome"})
)

// ObserveProviderCall records one upstream call.
func ObserveProviderCall(operation, result string, d time.Duration) {
	providerRequests.WithLabelValues(operation, result).Inc()
	providerDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordGatewayError counts an error envelope returned by the gateway.
// kind is "validation" or "upstream".
func RecordGatewayError(operation, kind string) {
	gatewayErrors.WithLabelValues(operation, kind).Inc()
}

// RecordCacheLookup counts a response cache lookup.
func RecordCacheLookup(operation, outcome string) {
	responseCache.WithLabelValues(operation, outcome).Inc()
}
