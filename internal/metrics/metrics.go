// Package metrics counts what a sync run did and exports the numbers in
// the node-exporter textfile format, since the tool runs from cron rather
// than as a long-lived process.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Document outcomes.
const (
	OutcomeDownloaded   = "downloaded"
	OutcomeExists       = "exists"
	OutcomeNoFile       = "no_file"
	OutcomeRejectedType = "rejected_type"
	OutcomeEmpty        = "empty"
	OutcomeMIMEMismatch = "mime_mismatch"
)

type SyncMetrics struct {
	registry *prometheus.Registry

	documentsTotal *prometheus.CounterVec
	syncDuration   *prometheus.HistogramVec
	lastSuccess    *prometheus.GaugeVec
}

func NewSyncMetrics() *SyncMetrics {
	registry := prometheus.NewRegistry()

	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billarchive",
			Name:      "documents_total",
			Help:      "Documents processed by backend and outcome.",
		},
		[]string{"backend", "outcome"},
	)
	syncDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "billarchive",
			Name:      "backend_sync_duration_seconds",
			Help:      "Duration of one backend pass by status.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"backend", "status"},
	)
	lastSuccess := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "billarchive",
			Name:      "backend_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful backend pass.",
		},
		[]string{"backend"},
	)

	registry.MustRegister(documentsTotal, syncDuration, lastSuccess)

	return &SyncMetrics{
		registry:       registry,
		documentsTotal: documentsTotal,
		syncDuration:   syncDuration,
		lastSuccess:    lastSuccess,
	}
}

func (m *SyncMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *SyncMetrics) ObserveDocument(backend, outcome string) {
	m.documentsTotal.WithLabelValues(backend, outcome).Inc()
}

func (m *SyncMetrics) FinishSync(backend string, started, finished time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.syncDuration.WithLabelValues(backend, status).Observe(finished.Sub(started).Seconds())
	if err == nil {
		m.lastSuccess.WithLabelValues(backend).Set(float64(finished.Unix()))
	}
}

// WriteTextfile writes every metric to path, atomically.
func (m *SyncMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
