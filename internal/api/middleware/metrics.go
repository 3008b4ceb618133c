// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dramahub_http_request_duration_seconds",
		Help:    "Gateway request latency by route and status",
		Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	}, []string{"route", "status"})

	gatewayRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dramahub_http_requests_in_flight",
		Help: "Gateway requests currently being served",
	})

	gatewayResponseBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dramahub_http_response_size_bytes",
		Help:    "Gateway response body size by route",
		Buckets: prometheus.ExponentialBuckets(64, 4, 8),
	}, []string{"route"})

	gatewayOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dramahub_http_requests_total",
		Help: "Gateway requests by route and outcome (ok, rejected, rate_limited, failed)",
	}, []string{"route", "outcome"})
)

// outcome buckets a status into what the gateway did with the request.
func outcome(status int) string {
	switch {
	case status == http.StatusTooManyRequests:
		return "rate_limited"
	case status >= 500:
		return "failed"
	case status >= 400:
		return "rejected"
	default:
		return "ok"
	}
}

// Metrics records latency, response size and outcome per chi route pattern.
// Unmatched paths share the "unmatched" label to bound cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			gatewayRequestsInFlight.Inc()
			defer gatewayRequestsInFlight.Dec()

			sw := &sizeWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}

			gatewayRequestDuration.WithLabelValues(route, strconv.Itoa(sw.status)).Observe(time.Since(start).Seconds())
			gatewayResponseBytes.WithLabelValues(route).Observe(float64(sw.bytes))
			gatewayOutcomes.WithLabelValues(route, outcome(sw.status)).Inc()
		})
	}
}

type sizeWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (sw *sizeWriter) WriteHeader(status int) {
	if !sw.wroteHeader {
		sw.status = status
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *sizeWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.WriteHeader(http.StatusOK)
	}
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += n
	return n, err
}
