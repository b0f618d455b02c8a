package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout attempt outcomes and stock reconciliation health.
type CheckoutMetrics struct {
	duration         *prometheus.HistogramVec
	outcomes         *prometheus.CounterVec
	reconcileSkipped prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout confirmations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout attempts by terminal outcome.",
	}, []string{"outcome"})
	reconcileSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_reconciliation_skipped_total",
		Help: "Order lines skipped during stock reconciliation.",
	})
	reg.MustRegister(duration, outcomes, reconcileSkipped)
	return &CheckoutMetrics{
		duration:         duration,
		outcomes:         outcomes,
		reconcileSkipped: reconcileSkipped,
	}
}

// ObservePhase records the duration of a checkout phase.
func (c *CheckoutMetrics) ObservePhase(phase string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(phase)).Observe(duration.Seconds())
}

// IncOutcome increments the counter for the named terminal outcome.
func (c *CheckoutMetrics) IncOutcome(outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncReconcileSkipped counts a line the reconciler could not decrement.
func (c *CheckoutMetrics) IncReconcileSkipped() {
	if c == nil || c.reconcileSkipped == nil {
		return
	}
	c.reconcileSkipped.Inc()
}
