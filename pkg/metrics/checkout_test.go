package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)
	metrics.ObserveFinalize(OutcomeSuccess, 250*time.Millisecond)
	metrics.RecordOrder(13, 4000, 20)
	metrics.RecordOrder(7, 0, 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := fetchPlainCounter(t, mfs, "loyalty_points_accrued_total"); got != 20 {
		t.Fatalf("expected accrued=20, got %f", got)
	}
	if got := fetchPlainCounter(t, mfs, "loyalty_points_redeemed_total"); got != 4000 {
		t.Fatalf("expected redeemed=4000, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "loyalty_discounts_total", "percentage", "20"); err != nil {
		t.Fatalf("fetch discount tier: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one 20%% discount, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "loyalty_discounts_total", "percentage", "0"); err != nil {
		t.Fatalf("fetch zero tier: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one undiscounted order, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_finalize_duration_seconds", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	var nilMetrics *CheckoutMetrics
	nilMetrics.ObserveFinalize(OutcomeFailure, time.Second)
	nilMetrics.RecordOrder(1, 2, 10)

	unregistered := NewCheckoutMetrics(nil)
	unregistered.ObserveFinalize("", time.Second)
	unregistered.RecordOrder(1, 2, 10)
}

func fetchPlainCounter(t *testing.T, mfs []*dto.MetricFamily, name string) float64 {
	t.Helper()
	mf := findMetricFamily(mfs, name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		t.Fatalf("metric %q not found", name)
	}
	return mf.GetMetric()[0].GetCounter().GetValue()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
