// Package metrics provides Prometheus instrumentation for the tiling
// core. It holds no state of its own beyond the collectors: callers
// (cmd/tilecore's serve loop) record against these directly, and
// internal/ipc exposes them over /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Placement metrics.
var (
	ArrangeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tilecore_arrange_duration_seconds",
		Help:    "Time spent computing and applying one arrange pass.",
		Buckets: prometheus.DefBuckets,
	}, []string{"monitor"})

	Columns = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tilecore_columns",
		Help: "Current column count of a monitor's tree.",
	}, []string{"monitor"})

	Clients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tilecore_clients",
		Help: "Number of clients known to a monitor, by state.",
	}, []string{"monitor", "state"})
)

// Mutation metrics.
var (
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tilecore_mutations_total",
		Help: "Total tree mutations, by operation.",
	}, []string{"op"})

	ResizeEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecore_resize_events_total",
		Help: "Total interactive resize motion events applied (post-throttle).",
	})
)

// Mutation op labels for MutationsTotal.
const (
	OpInsert = "insert"
	OpRemove = "remove"
	OpSwap   = "swap"
	OpRotate = "rotate"
)

// Client state labels for Clients.
const (
	StateTiled      = "tiled"
	StateFloating   = "floating"
	StateFullscreen = "fullscreen"
)
