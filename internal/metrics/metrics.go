// Package metrics provides Prometheus metrics for the provisioning trigger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch results.
const (
	ResultSuccess         = "success"
	ResultRejected        = "rejected"
	ResultTransportError  = "transport_error"
	ResultNotConfigured   = "not_configured"
	ResultWriteBackFailed = "write_back_failed"
)

var (
	// InvocationsTotal tracks trigger invocations by archetype and result
	InvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "provtrigger",
			Subsystem: "trigger",
			Name:      "invocations_total",
			Help:      "Total number of trigger invocations by archetype and result",
		},
		[]string{"archetype", "result"},
	)

	// DispatchRequestsTotal tracks repository_dispatch calls by status code
	DispatchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "provtrigger",
			Subsystem: "github",
			Name:      "dispatch_requests_total",
			Help:      "Total number of repository_dispatch requests by status code",
		},
		[]string{"status_code"},
	)

	// DispatchDuration tracks repository_dispatch call duration
	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "provtrigger",
			Subsystem: "github",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of repository_dispatch requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// LookupFailuresTotal tracks swallowed variable and identity lookup faults
	LookupFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "provtrigger",
			Subsystem: "trigger",
			Name:      "lookup_failures_total",
			Help:      "Total number of lookup faults replaced by a fallback value",
		},
		[]string{"lookup"},
	)

	// EventsTotal tracks webhook events by qualification
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "provtrigger",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total number of record events received by qualification",
		},
		[]string{"qualified"},
	)
)
