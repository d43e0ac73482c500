package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type OrderMetrics struct {
	placed *prometheus.CounterVec
	failed *prometheus.CounterVec
}

// modeは "single" か "cart"
func NewOrderMetrics() *OrderMetrics {
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "orders_placed_total",
		Help:      "Total number of successfully placed orders.",
	}, []string{"mode"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "orders_failed_total",
		Help:      "Total number of failed order attempts.",
	}, []string{"mode"})

	prometheus.MustRegister(placed, failed)
	return &OrderMetrics{placed: placed, failed: failed}
}

func (m *OrderMetrics) OrderPlaced(mode string) {
	m.placed.WithLabelValues(mode).Inc()
}

func (m *OrderMetrics) OrderFailed(mode string) {
	m.failed.WithLabelValues(mode).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
