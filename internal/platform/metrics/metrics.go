package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VendorTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmahub_vendor_transitions_total",
			Help: "Vendor lifecycle transitions attempted, by action and outcome",
		},
		[]string{"action", "result"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmahub_notifications_failed_total",
			Help: "Vendor notifications that could not be delivered",
		},
		[]string{"channel"},
	)

	SummaryRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pharmahub_summary_refresh_duration_seconds",
			Help:    "Duration of a single vendor summary recomputation",
			Buckets: prometheus.DefBuckets,
		},
	)

	SummaryRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmahub_summary_refreshes_total",
			Help: "Vendor summary recomputations, by outcome",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmahub_http_requests_total",
			Help: "HTTP requests served, by route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)
)
