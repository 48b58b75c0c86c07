package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "incident", Name: "http_requests_total", Help: "Number of handled HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "incident", Name: "http_request_duration_seconds", Help: "HTTP request latency by method and route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	SequenceAllocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "incident", Name: "sequence_allocations_total", Help: "Number of issue numbers handed out by allocator backend."},
		[]string{"backend"},
	)
	SequenceGaps = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "incident", Name: "sequence_gaps_total", Help: "Issue numbers allocated but never persisted because the insert failed."},
	)
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "incident", Name: "store_operations_total", Help: "Incident store operations by operation and outcome."},
		[]string{"op", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(SequenceAllocations)
	reg.MustRegister(SequenceGaps)
	reg.MustRegister(StoreOperations)
}
