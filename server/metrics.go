package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// opsTotal counts wire operations by kind and outcome.
	opsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabdb_operations_total",
			Help: "Total number of wire operations",
		},
		[]string{"op", "status"},
	)
	// opDuration is the latency of wire operations.
	opDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tabdb_operation_duration_seconds",
			Help:    "Wire operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	// connectionsOpen tracks currently served connections.
	connectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tabdb_connections_open",
			Help: "Currently open client connections",
		},
	)
)
