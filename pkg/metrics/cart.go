package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for cart operations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CartMetrics records cart operation outcomes and the resulting totals.
type CartMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	totals     prometheus.Histogram
	orders     prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by outcome and error code.",
	}, []string{"operation", "outcome", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	totals := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_total_after_discount",
		Help:    "Cart totals after discounts, in minor currency units.",
		Buckets: prometheus.ExponentialBuckets(1000, 2, 12),
	})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_orders_completed_total",
		Help: "Orders completed from the cart.",
	})
	reg.MustRegister(operations, duration, totals, orders)
	return &CartMetrics{
		operations: operations,
		duration:   duration,
		totals:     totals,
		orders:     orders,
	}
}

// ObserveOperation records the outcome of a cart operation. An empty code means success.
func (c *CartMetrics) ObserveOperation(operation, code string, elapsed time.Duration) {
	if c == nil || c.operations == nil {
		return
	}
	outcome := OutcomeSuccess
	if code != "" {
		outcome = OutcomeFailure
	}
	c.operations.WithLabelValues(normalizeLabel(operation), outcome, code).Inc()
	c.duration.WithLabelValues(normalizeLabel(operation)).Observe(elapsed.Seconds())
}

// ObserveTotal records the after-discount total of the cart.
func (c *CartMetrics) ObserveTotal(total int64) {
	if c == nil || c.totals == nil {
		return
	}
	c.totals.Observe(float64(total))
}

// IncOrders increments the completed orders counter.
func (c *CartMetrics) IncOrders() {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
