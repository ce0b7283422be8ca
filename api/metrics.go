package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client's collectors on a private registry so a short lived command can
// dump them to a node-exporter textfile.
type Metrics struct {
	Registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	productions *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brewctl_api_requests_total",
			Help: "Backend requests by operation and HTTP status (0 when no response).",
		}, []string{"op", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brewctl_api_request_duration_seconds",
			Help:    "Backend request latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		productions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brewctl_productions_total",
			Help: "Production requests by outcome.",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(m.requests, m.duration, m.productions)
	return m
}

func (m *Metrics) observe(op string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// ProductionOutcome counts one production attempt; result is "ok", "rejected" or "infeasible".
func (m *Metrics) ProductionOutcome(result string) {
	if m == nil {
		return
	}
	m.productions.WithLabelValues(result).Inc()
}

// WriteTextfile writes every collector in the textfile collector format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
