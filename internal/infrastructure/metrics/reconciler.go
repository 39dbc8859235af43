// Package metrics exposes Prometheus instrumentation for the lifecycle passes.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconcilerMetrics counts pass runs and per-subscription outcomes.
type ReconcilerMetrics struct {
	passRuns     *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	items        *prometheus.CounterVec
	lastSuccess  *prometheus.GaugeVec
}

var (
	reconcilerMetricsInstance *ReconcilerMetrics
	reconcilerMetricsOnce     sync.Once
)

// GetReconcilerMetrics returns the process-wide instance registered on the
// default registry.
func GetReconcilerMetrics() *ReconcilerMetrics {
	reconcilerMetricsOnce.Do(func() {
		reconcilerMetricsInstance = NewReconcilerMetrics(prometheus.DefaultRegisterer)
	})
	return reconcilerMetricsInstance
}

func NewReconcilerMetrics(reg prometheus.Registerer) *ReconcilerMetrics {
	m := &ReconcilerMetrics{
		passRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadhub",
				Subsystem: "lifecycle",
				Name:      "pass_runs_total",
				Help:      "Total lifecycle pass runs by pass and result",
			},
			[]string{"pass", "result"},
		),
		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "leadhub",
				Subsystem: "lifecycle",
				Name:      "pass_duration_seconds",
				Help:      "Wall time of lifecycle passes",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 1800},
			},
			[]string{"pass"},
		),
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadhub",
				Subsystem: "lifecycle",
				Name:      "items_total",
				Help:      "Subscriptions handled by lifecycle passes, by outcome",
			},
			[]string{"pass", "outcome"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "leadhub",
				Subsystem: "lifecycle",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last pass that finished without a pass-level error",
			},
			[]string{"pass"},
		),
	}

	reg.MustRegister(m.passRuns, m.passDuration, m.items, m.lastSuccess)
	return m
}

// ObservePass records one finished pass.
func (m *ReconcilerMetrics) ObservePass(pass string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	} else {
		m.lastSuccess.WithLabelValues(pass).SetToCurrentTime()
	}
	m.passRuns.WithLabelValues(pass, result).Inc()
	m.passDuration.WithLabelValues(pass).Observe(duration.Seconds())
}

// RecordItem counts one subscription outcome such as "notified", "skipped" or "failed".
func (m *ReconcilerMetrics) RecordItem(pass, outcome string) {
	m.items.WithLabelValues(pass, outcome).Inc()
}
