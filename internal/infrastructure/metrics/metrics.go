package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks every request by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docstack_http_requests_total",
		Help: "Total number of HTTP requests processed",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks request handling time
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docstack_http_request_duration_seconds",
		Help:    "Histogram of HTTP request handling duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// GateDecisionsTotal tracks API key gate outcomes (allowed, missing_key,
	// invalid_key, expired_key, forbidden, rate_limited)
	GateDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docstack_gate_decisions_total",
		Help: "Total number of API key authorization decisions",
	}, []string{"outcome"})

	// UsageWritesTotal tracks fire-and-forget usage record writes
	UsageWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docstack_usage_writes_total",
		Help: "Total number of usage record writes",
	}, []string{"result"})

	// AuditWritesTotal tracks fire-and-forget audit entry writes
	AuditWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docstack_audit_writes_total",
		Help: "Total number of audit entry writes",
	}, []string{"result"})
)
