package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mercuri"

var (
	OffersDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "offers_dispatched_total", Help: "Offers created by dispatch rounds",
	})

	DispatchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "dispatch_attempts_total", Help: "Dispatch attempts by result"},
		[]string{"result"},
	)

	AcceptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "accept_total", Help: "Accept calls by result"},
		[]string{"result"},
	)

	ReaperSwept = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "reaper_swept_total", Help: "Rows retired by the expiration reaper"},
		[]string{"kind"},
	)

	FanoutFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "fanout_failures_total", Help: "Notifications that could not be published"},
		[]string{"event"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
