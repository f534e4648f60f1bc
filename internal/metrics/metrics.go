// Package metrics defines the Prometheus instrumentation shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Broadcast metrics
var (
	// EventsPublishedTotal tracks published events by event type
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_events_published_total",
			Help: "Total events published to the broadcast bus by event type",
		},
		[]string{"type"},
	)

	// EventsDroppedTotal tracks dropped events by reason (marshal, queue_full)
	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_events_dropped_total",
			Help: "Total events dropped by reason",
		},
		[]string{"reason"},
	)

	// BroadcastSubscribers tracks the current number of live subscriptions
	BroadcastSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "broadcast_subscribers",
			Help: "Current number of live broadcast subscriptions",
		},
	)

	// HeartbeatsTotal tracks heartbeat frames delivered to subscribers
	HeartbeatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_heartbeats_total",
			Help: "Total heartbeat frames delivered to subscribers",
		},
	)
)

// Stream transport metrics
var (
	// StreamConnectionsTotal tracks accepted stream connections by transport (sse, websocket)
	StreamConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_connections_total",
			Help: "Total accepted stream connections by transport",
		},
		[]string{"transport"},
	)

	// StreamConnectionsRejected tracks stream connections rejected at capacity
	StreamConnectionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_connections_rejected_total",
			Help: "Total stream connections rejected because the instance was at capacity",
		},
	)

	// StreamConnectionsActive tracks currently open stream connections
	StreamConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_connections_active",
			Help: "Currently open stream connections",
		},
	)
)

// HTTP metrics
var (
	// HTTPErrorsTotal tracks HTTP errors by structured error type
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP errors by error type",
		},
		[]string{"type"},
	)
)
