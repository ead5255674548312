package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeCreated           = "created"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeNotFound          = "not_found"
	OutcomeInvalid           = "invalid"
	OutcomeFailed            = "failed"
)

// OrderMetrics tracks the order assembly workflow.
type OrderMetrics struct {
	duration *prometheus.HistogramVec
	attempts *prometheus.CounterVec
	revenue  prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_create_duration_seconds",
		Help:    "Duration of order assembly transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_create_total",
		Help: "Order creation attempts by outcome.",
	}, []string{"outcome"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_revenue_total",
		Help: "Sum of totals of assembled orders.",
	})
	reg.MustRegister(duration, attempts, revenue)
	return &OrderMetrics{
		duration: duration,
		attempts: attempts,
		revenue:  revenue,
	}
}

// ObserveCreate records one order assembly attempt.
func (m *OrderMetrics) ObserveCreate(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil || m.attempts == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.attempts.WithLabelValues(outcome).Inc()
}

// AddRevenue adds an assembled order total.
func (m *OrderMetrics) AddRevenue(amount float64) {
	if m == nil || m.revenue == nil || amount <= 0 {
		return
	}
	m.revenue.Add(amount)
}
