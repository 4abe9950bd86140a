package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	liveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections_active",
			Help: "Number of currently registered live connections",
		},
	)

	eventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_events_delivered_total",
			Help: "Total number of events written to client send queues",
		},
		[]string{"type"},
	)

	eventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_events_dropped_total",
			Help: "Total number of events dropped on full client send queues",
		},
	)
)
