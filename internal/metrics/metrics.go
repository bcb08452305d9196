// Package metrics defines the prometheus instrumentation for the watch
// client. The registry is private to the process and exposed over the
// transport/http server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the client's collectors.
type Metrics struct {
	Connects        prometheus.Counter
	Retries         prometheus.Counter
	Events          *prometheus.CounterVec
	DecodeErrors    prometheus.Counter
	Refreshes       *prometheus.CounterVec
	ConnectionState prometheus.Gauge
}

// NewRegistry returns a fresh prometheus registry with the standard
// process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New registers the watch client collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Connects: factory.NewCounter(prometheus.CounterOpts{
			Name: "watchmux_connects_total",
			Help: "Successful watch stream connections.",
		}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "watchmux_reconnect_retries_total",
			Help: "Automatic reconnect attempts consumed from the retry budget.",
		}),
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "watchmux_events_total",
			Help: "Domain events received from the watch stream, by type.",
		}, []string{"type"}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "watchmux_decode_errors_total",
			Help: "Stream messages dropped because they could not be decoded.",
		}),
		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "watchmux_refreshes_total",
			Help: "Resource-version refresh attempts after stream-end, by result.",
		}, []string{"result"}),
		ConnectionState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "watchmux_connection_state",
			Help: "Current connection state (0=idle 1=connecting 2=open 3=backoff 4=exhausted).",
		}),
	}
}
