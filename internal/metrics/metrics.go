package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_status_transitions_total",
		Help: "Successful entity status transitions by entity kind and new status",
	}, []string{"entity", "status"})

	PaymentsValidatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_validated_total",
		Help: "Payments validated by staff",
	})

	PaymentsOverdueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_overdue_total",
		Help: "Payments flipped to OVERDUE by the sweeper",
	})

	AggregationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aggregation_failures_total",
		Help: "Aggregation calls that failed and were rewrapped",
	})
)
