package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestJobMetricsExportsRunsAndDrift(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewJobMetrics(reg)
	metrics.ObserveDuration("balance-audit", 120*time.Millisecond)
	metrics.IncSuccess("balance-audit")
	metrics.IncSuccess("balance-audit")
	metrics.IncFailure("balance-audit")
	metrics.SetBalanceDrift(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "loyalty_job_runs_total", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 2 {
		t.Fatalf("expected two successful runs, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "loyalty_job_runs_total", "outcome", OutcomeFailure); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one failed run, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "loyalty_job_duration_seconds", "job", "balance-audit"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	drift := findMetricFamily(mfs, "loyalty_balance_drift_accounts")
	if drift == nil || len(drift.GetMetric()) != 1 {
		t.Fatal("drift gauge not exported")
	}
	if got := drift.GetMetric()[0].GetGauge().GetValue(); got != 3 {
		t.Fatalf("expected drift=3, got %f", got)
	}
}

func TestJobMetricsNilSafe(t *testing.T) {
	var nilMetrics *JobMetrics
	nilMetrics.ObserveDuration("job", time.Second)
	nilMetrics.IncSuccess("job")
	nilMetrics.IncFailure("job")
	nilMetrics.SetBalanceDrift(1)

	unregistered := NewJobMetrics(nil)
	unregistered.IncFailure("")
	unregistered.SetBalanceDrift(0)
}
