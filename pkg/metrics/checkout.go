package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CheckoutMetrics records loyalty activity produced by finalized checkouts.
type CheckoutMetrics struct {
	duration  *prometheus.HistogramVec
	accrued   prometheus.Counter
	redeemed  prometheus.Counter
	discounts *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_finalize_duration_seconds",
		Help:    "Duration of checkout finalization in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	accrued := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_points_accrued_total",
		Help: "Loyalty points earned by finalized orders.",
	})
	redeemed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_points_redeemed_total",
		Help: "Loyalty points spent on discounts by finalized orders.",
	})
	discounts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalty_discounts_total",
		Help: "Finalized orders by granted discount percentage.",
	}, []string{"percentage"})
	reg.MustRegister(duration, accrued, redeemed, discounts)
	return &CheckoutMetrics{
		duration:  duration,
		accrued:   accrued,
		redeemed:  redeemed,
		discounts: discounts,
	}
}

// ObserveFinalize records how long a finalization took and whether it committed.
func (m *CheckoutMetrics) ObserveFinalize(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// RecordOrder counts the points moved and the discount tier granted by a committed order.
func (m *CheckoutMetrics) RecordOrder(pointsEarned, pointsUsed, percentage int64) {
	if m == nil || m.accrued == nil {
		return
	}
	if pointsEarned > 0 {
		m.accrued.Add(float64(pointsEarned))
	}
	if pointsUsed > 0 {
		m.redeemed.Add(float64(pointsUsed))
	}
	m.discounts.WithLabelValues(strconv.FormatInt(percentage, 10)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
