package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "altrion_http_requests_total",
			Help: "Screen requests served, by route and status",
		},
		[]string{"route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "altrion_api_request_duration_seconds",
			Help:    "Duration of outbound backend calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"client", "method", "outcome"},
	)

	QueryCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "altrion_query_cache_total",
			Help: "Query cache lookups by result (hit, miss, shared, error)",
		},
		[]string{"result"},
	)

	LoanCalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "altrion_loan_calculations_total",
			Help: "Pricing calls by outcome",
		},
		[]string{"outcome"},
	)

	LinkAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "altrion_link_attempts_total",
			Help: "Account-linking attempts by platform category and result",
		},
		[]string{"category", "status"},
	)

	LinkInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "altrion_link_in_flight",
			Help: "Account-linking attempts currently connecting",
		},
	)
)
