// Package telemetry registers the prometheus metrics the scheduler
// updates as clients connect and notes are dispatched.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ServerMetrics tracks the orchestration-specific counters and gauges
// exposed at /internal/metrics (internal/statusapi).
type ServerMetrics struct {
	ClientsConnected  prometheus.Gauge
	NotesDispatched   prometheus.Counter
	FanOutFailures    prometheus.Counter
	HandshakeRejected prometheus.Counter
}

// NewServerMetrics creates and registers the server-side metric set.
func NewServerMetrics() *ServerMetrics {
	return &ServerMetrics{
		ClientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "midi_orchestra_clients_connected",
			Help: "Number of clients currently registered with the server.",
		}),
		NotesDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "midi_orchestra_notes_dispatched_total",
			Help: "Total PlayNote packets sent to clients.",
		}),
		FanOutFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "midi_orchestra_fan_out_failures_total",
			Help: "Total send failures while dispatching a note to a client.",
		}),
		HandshakeRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "midi_orchestra_handshake_rejected_total",
			Help: "Total connections rejected for an invalid handshake packet.",
		}),
	}
}
