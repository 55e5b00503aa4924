// Package telemetry exposes the simulation's ambient observability surface:
// Prometheus metrics and a thin debug HTTP router. It never reaches into
// simulation state beyond what the engine exposes through accessor methods
// or snapshots.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality (no per-ball or per-chamber labels —
// chamber and ball counts are unbounded in principle, so any label keyed
// on their IDs would be an unbounded cardinality source).
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chamberball_tick_duration_seconds",
		Help:    "Time spent executing one simulation tick",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025},
	})

	ballCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chamberball_ball_count",
		Help: "Number of balls in the simulation",
	})

	chamberCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chamberball_chamber_count",
		Help: "Number of registered chambers",
	})

	tickCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamberball_ticks_total",
		Help: "Total simulation ticks executed",
	})

	eventLogTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamberball_event_log_total",
		Help: "Total events accepted by the event log",
	})

	eventLogDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamberball_event_log_dropped_total",
		Help: "Events dropped by the event log due to rate limiting or buffer pressure",
	})

	chamberErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chamberball_chamber_errors_total",
		Help: "Absorbed chamber program errors, by kind",
	}, []string{"kind"}) // bounded: "panic", "invariant_violation"
)

// RecordTick records one tick's wall-clock duration and increments the
// tick counter.
func RecordTick(duration time.Duration) {
	tickDuration.Observe(duration.Seconds())
	tickCount.Inc()
}

// UpdatePopulation sets the current ball and chamber gauges.
func UpdatePopulation(balls, chambers int) {
	ballCount.Set(float64(balls))
	chamberCount.Set(float64(chambers))
}

var lastEventTotal, lastEventDropped uint64

// UpdateEventLogDelta increments the Prometheus counters by the delta
// since the previous call, since client_golang counters expose Add/Inc,
// not Set.
func UpdateEventLogDelta(total, dropped uint64) {
	if total > lastEventTotal {
		eventLogTotal.Add(float64(total - lastEventTotal))
		lastEventTotal = total
	}
	if dropped > lastEventDropped {
		eventLogDropped.Add(float64(dropped - lastEventDropped))
		lastEventDropped = dropped
	}
}

// RecordChamberError increments the chamber error counter for the given
// bounded kind ("panic" or "invariant_violation").
func RecordChamberError(kind string) {
	chamberErrorsTotal.WithLabelValues(kind).Inc()
}
