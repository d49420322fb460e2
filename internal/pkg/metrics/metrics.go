// Package metrics provides Prometheus metrics definitions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bloodbridge"

var (
	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status_code"},
	)

	// BloodRequestsTotal counts submitted blood requests.
	BloodRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "submitted_total",
			Help:      "Blood requests submitted by source and blood type",
		},
		[]string{"source", "blood_type"},
	)

	// EventsScheduledTotal counts scheduled donation events.
	EventsScheduledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "scheduled_total",
			Help:      "Donation events scheduled by hospitals",
		},
	)

	// AuthAttemptsTotal counts registrations and logins by outcome.
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "attempts_total",
			Help:      "Registration and login attempts by operation and result",
		},
		[]string{"operation", "result"},
	)
)
