package storefront

import (
	"github.com/prometheus/client_golang/prometheus"

	"Sportivo/pkg/kit"
)

type Metrics struct {
	OrdersPlaced    prometheus.Counter
	CatalogFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		OrdersPlaced:    kit.NewCounter(reg, "storefront_orders_placed_total", "Orders placed"),
		CatalogFailures: kit.NewCounter(reg, "storefront_catalog_fetch_failures_total", "Failed catalog fetches"),
	}
}

func (m *Metrics) orderPlaced() {
	if m != nil {
		m.OrdersPlaced.Inc()
	}
}

func (m *Metrics) catalogFailed() {
	if m != nil {
		m.CatalogFailures.Inc()
	}
}
