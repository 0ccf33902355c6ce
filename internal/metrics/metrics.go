package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OutboundRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_outbound_requests_total",
			Help: "Total number of outbound API requests by method and response status",
		},
		[]string{"method", "status"},
	)

	OutboundRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_outbound_request_duration_seconds",
			Help:    "Outbound API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	RefreshAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_session_refresh_attempts_total",
			Help: "Total number of session refresh calls sent, by outcome",
		},
		[]string{"outcome"},
	)

	RefreshWaiters = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: Namespace + "_session_refresh_shared_total",
			Help: "Total number of callers that joined an in-flight session refresh instead of starting one",
		},
	)

	AuthRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: Namespace + "_auth_retries_total",
			Help: "Total number of requests retried after a successful session refresh",
		},
	)

	UnrecoverableAuthFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: Namespace + "_auth_unrecoverable_total",
			Help: "Total number of requests that failed authentication after recovery was attempted",
		},
	)

	Redirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_reauth_redirects_total",
			Help: "Total number of re-authentication redirect decisions, by result",
		},
		[]string{"result"},
	)
)
