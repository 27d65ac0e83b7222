// Package metrics provides Prometheus metrics for the client and the mock API.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	pageLoads       *prometheus.CounterVec
	remoteFailures  *prometheus.CounterVec
	localWrites     *prometheus.CounterVec
	apiRequests     *prometheus.CounterVec
	apiRequestTimes *prometheus.HistogramVec
}

// New creates and registers metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		pageLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reel_page_loads_total",
				Help: "Pages served by access operations, by resource and origin",
			},
			[]string{"resource", "origin"},
		),
		remoteFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reel_remote_failures_total",
				Help: "Failed remote calls, by resource and failure kind",
			},
			[]string{"resource", "kind"},
		),
		localWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reel_local_writes_total",
				Help: "Optimistic local writes, by resource and outcome",
			},
			[]string{"resource", "outcome"},
		),
		apiRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reel_api_requests_total",
				Help: "Requests handled by the API server",
			},
			[]string{"method", "route", "status"},
		),
		apiRequestTimes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reel_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		),
	}
}

// PageLoaded records where a page was served from.
func (m *Metrics) PageLoaded(resource string, origin domain.Origin) {
	if m == nil {
		return
	}
	m.pageLoads.WithLabelValues(resource, origin.String()).Inc()
}

// RemoteFailed records a failed remote call, classified by FailureKind.
func (m *Metrics) RemoteFailed(resource string, err error) {
	if m == nil || err == nil {
		return
	}
	m.remoteFailures.WithLabelValues(resource, FailureKind(err)).Inc()
}

// LocalWrite records an optimistic write; outcome is "synced" or "local_only".
func (m *Metrics) LocalWrite(resource, outcome string) {
	if m == nil {
		return
	}
	m.localWrites.WithLabelValues(resource, outcome).Inc()
}

// ObserveRequest records one API request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiRequestTimes.WithLabelValues(method, route).Observe(d.Seconds())
}

// FailureKind maps an error to its place in the failure taxonomy.
func FailureKind(err error) string {
	var remote *domain.RemoteError
	switch {
	case errors.As(err, &remote):
		return "remote"
	case errors.Is(err, domain.ErrServerOffline):
		return "transport"
	default:
		return "unknown"
	}
}
