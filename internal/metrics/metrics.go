// Package metrics holds the Prometheus instruments for sync runs.  All
// collectors register with the global registry, so importing this
// package is enough to expose them on the ops listener's /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedsync_runs_total",
			Help: "Completed sync runs by outcome (success or failure).",
		}, []string{"outcome"})

	VehiclesAddedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedsync_vehicles_added_total",
			Help: "Cumulative vehicles first seen and inserted.",
		})

	VehiclesUpdatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedsync_vehicles_updated_total",
			Help: "Cumulative vehicles refreshed by upsert.",
		})

	VehiclesRemovedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedsync_vehicles_removed_total",
			Help: "Cumulative vehicles soft-deleted after leaving the feed.",
		})

	LastRunDurationSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedsync_last_run_duration_seconds",
			Help: "Wall-clock duration of the most recent run.",
		})

	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedsync_last_run_timestamp_seconds",
			Help: "Unix time the most recent run finished.",
		})
)

func init() {
	prometheus.MustRegister(
		RunsTotal,
		VehiclesAddedTotal,
		VehiclesUpdatedTotal,
		VehiclesRemovedTotal,
		LastRunDurationSeconds,
		LastRunTimestamp,
	)
}
