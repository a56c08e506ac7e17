// Package telemetry registers the process-level Prometheus metrics. It says
// nothing about business figures; those live in analytics snapshots.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brokerscope_snapshots_built_total",
		Help: "Total number of analytics snapshots built, labelled by outcome.",
	}, []string{"outcome"})

	SnapshotDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brokerscope_snapshot_duration_seconds",
		Help:    "End-to-end snapshot build latency in seconds.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	RecordsCollected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brokerscope_records_collected_total",
		Help: "Total records materialized from the stores, labelled by record type.",
	}, []string{"record_type"})
)
