// Package observability provides Prometheus metrics for the dispute caller.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors. All collectors register
// with the default registry and are served from /metrics.
type Metrics struct {
	// TurnDuration measures time from webhook receipt to rendered document.
	// Labels: turn (initial|speech|no_speech), status (ok|degraded)
	TurnDuration *prometheus.HistogramVec

	// DialogueDuration measures dialogue model call latency in seconds.
	// Labels: operation (opening|turn|outcome), status (success|error)
	DialogueDuration *prometheus.HistogramVec

	// SynthesisDuration measures TTS call latency in seconds.
	// Labels: status (success|error)
	SynthesisDuration *prometheus.HistogramVec

	// AudioCache counts synthesis cache lookups.
	// Labels: result (hit|miss)
	AudioCache *prometheus.CounterVec

	// ActiveCalls is a gauge of currently live call sessions.
	ActiveCalls prometheus.Gauge

	// CallsPlaced counts outbound call placements.
	// Labels: status (placed|blocked|error)
	CallsPlaced *prometheus.CounterVec

	// CallOutcomes counts terminal call classifications.
	// Labels: outcome (resolved|escalated|pending|failed)
	CallOutcomes *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics. Call once at
// startup.
func NewMetrics() *Metrics {
	return &Metrics{
		TurnDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "disputecall_turn_duration_seconds",
				Help:    "Time from webhook receipt to rendered control document",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
			},
			[]string{"turn", "status"},
		),
		DialogueDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "disputecall_dialogue_duration_seconds",
				Help:    "Dialogue model call latency",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation", "status"},
		),
		SynthesisDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "disputecall_synthesis_duration_seconds",
				Help:    "Speech synthesis call latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"status"},
		),
		AudioCache: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputecall_audio_cache_total",
				Help: "Synthesis cache lookups by result",
			},
			[]string{"result"},
		),
		ActiveCalls: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "disputecall_active_calls",
				Help: "Currently live call sessions",
			},
		),
		CallsPlaced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputecall_calls_placed_total",
				Help: "Outbound call placements by status",
			},
			[]string{"status"},
		),
		CallOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputecall_call_outcomes_total",
				Help: "Terminal call classifications",
			},
			[]string{"outcome"},
		),
	}
}
