package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	CallbacksTotal   *prometheus.CounterVec
	CallbackDuration *prometheus.HistogramVec
	RejectionsTotal  *prometheus.CounterVec
}

// NewMetrics creates the service metrics and registers them with reg.
// A nil reg registers with the Prometheus default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipcallback_callbacks_total",
				Help: "Total number of shipping callbacks by provider, phase, and status",
			},
			[]string{"provider", "phase", "status"},
		),
		CallbackDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shipcallback_callback_duration_seconds",
				Help:    "Callback handling duration in seconds by provider",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		RejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipcallback_rejections_total",
				Help: "Total address rejections by provider and issue",
			},
			[]string{"provider", "issue"},
		),
	}
}

// RecordCallback records a handled callback.
func (m *Metrics) RecordCallback(provider, phase, status string, duration float64) {
	m.CallbacksTotal.WithLabelValues(provider, phase, status).Inc()
	m.CallbackDuration.WithLabelValues(provider).Observe(duration)
}

// RecordRejection records an address rejection issue.
func (m *Metrics) RecordRejection(provider, issue string) {
	m.RejectionsTotal.WithLabelValues(provider, issue).Inc()
}
