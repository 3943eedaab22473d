package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records cron job runs and the findings of the balance audit.
type JobMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	drift    prometheus.Gauge
}

// NewJobMetrics registers the job metrics on the provided registerer.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loyalty_job_duration_seconds",
		Help:    "Duration of loyalty cron jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalty_job_runs_total",
		Help: "Loyalty cron job executions by outcome.",
	}, []string{"job", "outcome"})
	drift := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "loyalty_balance_drift_accounts",
		Help: "Accounts whose balance disagreed with their latest points ledger entry at the last audit.",
	})
	reg.MustRegister(duration, runs, drift)
	return &JobMetrics{
		duration: duration,
		runs:     runs,
		drift:    drift,
	}
}

// ObserveDuration records the duration for the named job.
func (m *JobMetrics) ObserveDuration(job string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (m *JobMetrics) IncSuccess(job string) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(job), OutcomeSuccess).Inc()
}

// IncFailure increments the failure counter for the named job.
func (m *JobMetrics) IncFailure(job string) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(job), OutcomeFailure).Inc()
}

// SetBalanceDrift publishes how many drifted accounts the last audit found.
func (m *JobMetrics) SetBalanceDrift(accounts int) {
	if m == nil || m.drift == nil {
		return
	}
	m.drift.Set(float64(accounts))
}
