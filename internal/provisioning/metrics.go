package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records run metrics in a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	pollAttempts   *prometheus.CounterVec
	submitRetries  *prometheus.CounterVec
	phaseDuration  *prometheus.HistogramVec
	phaseCompleted *prometheus.CounterVec
}

// NewMetrics creates the run metrics and registers them in a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		pollAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orgbaseline",
				Subsystem: "poll",
				Name:      "attempts_total",
				Help:      "Total number of status observations by operation and status",
			},
			[]string{"operation", "status"},
		),
		submitRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orgbaseline",
				Subsystem: "submit",
				Name:      "retries_total",
				Help:      "Total number of retried submissions by operation",
			},
			[]string{"operation"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "orgbaseline",
				Subsystem: "phase",
				Name:      "duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
			},
			[]string{"phase"},
		),
		phaseCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orgbaseline",
				Subsystem: "phase",
				Name:      "total",
				Help:      "Total number of finished provisioning phases by result",
			},
			[]string{"phase", "result"},
		),
	}

	m.Registry.MustRegister(m.pollAttempts, m.submitRetries, m.phaseDuration, m.phaseCompleted)
	return m
}

// RecordPollAttempt records one status observation.
func (m *Metrics) RecordPollAttempt(operation, status string) {
	if m == nil {
		return
	}
	m.pollAttempts.WithLabelValues(operation, status).Inc()
}

// RecordSubmitRetry records one retried submission.
func (m *Metrics) RecordSubmitRetry(operation string) {
	if m == nil {
		return
	}
	m.submitRetries.WithLabelValues(operation).Inc()
}

// RecordPhase records a finished phase and its duration.
func (m *Metrics) RecordPhase(phase string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.phaseCompleted.WithLabelValues(phase, result).Inc()
	m.phaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// WriteToTextfile writes the metrics in the Prometheus text format to path.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
