// Package metrics provides Prometheus metrics for the presence monitor:
// the resolved status, transition counts, detector health, and call
// durations. Exposed on /metrics when telemetry is enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Status ─────────────────────────────────────────────────────────────────

// CurrentStatus tracks the resolved status (0=available, 1=busy, 2=idle, 3=away).
var CurrentStatus = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "halo",
	Name:      "status",
	Help:      "Current resolved status (0=available, 1=busy, 2=idle, 3=away).",
})

// Transitions tracks applied status transitions.
var Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "halo",
	Name:      "transitions_total",
	Help:      "Total applied status transitions.",
}, []string{"from", "to"})

// IdleSeconds tracks the most recent idle sample.
var IdleSeconds = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "halo",
	Name:      "idle_seconds",
	Help:      "Idle duration from the latest idle sample.",
})

// ─── Detectors ──────────────────────────────────────────────────────────────

// DetectorFailures tracks detector errors and timeouts per platform.
// Failures are fail-open — the round treats the detector as inactive.
var DetectorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "halo",
	Name:      "detector_failures_total",
	Help:      "Total detector errors and timeouts per platform.",
}, []string{"platform"})

// PollLatency tracks how long each poll round takes.
var PollLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "halo",
	Name:      "poll_latency_seconds",
	Help:      "Poll round duration per probe kind.",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
}, []string{"probe"})

// ─── Sessions ───────────────────────────────────────────────────────────────

// CallDuration tracks completed call session lengths.
var CallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "halo",
	Name:      "call_duration_seconds",
	Help:      "Completed call session duration in seconds.",
	Buckets:   []float64{60, 300, 900, 1800, 3600, 7200},
})

// ─── Output ─────────────────────────────────────────────────────────────────

// SinkWriteFailures tracks failed writes to the output device.
var SinkWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "halo",
	Name:      "sink_write_failures_total",
	Help:      "Total failed writes to the status light.",
})
