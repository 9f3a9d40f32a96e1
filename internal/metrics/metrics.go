package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "pos"

// Metrics groups the collectors updated by the inventory and checkout engines.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Checkouts        *prometheus.CounterVec
	SalesAmount      prometheus.Counter
	StockAdjustments *prometheus.CounterVec
	LowStockSignals  *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		SalesAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_amount_total",
			Help:      "Sum of completed transaction totals.",
		}),
		StockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Manual stock adjustments by type and outcome.",
		}, []string{"type", "outcome"}),
		LowStockSignals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_stock_signals_total",
			Help:      "Low stock signals emitted after adjustments.",
		}, []string{"type"}),
	}
	if reg != nil {
		reg.MustRegister(m.Checkouts, m.SalesAmount, m.StockAdjustments, m.LowStockSignals)
	}
	return m
}

func (m *Metrics) ObserveCheckout(outcome string, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		f, _ := total.Float64()
		m.SalesAmount.Add(f)
	}
}

func (m *Metrics) ObserveAdjustment(adjustmentType, outcome string) {
	if m == nil {
		return
	}
	m.StockAdjustments.WithLabelValues(adjustmentType, outcome).Inc()
}

func (m *Metrics) ObserveLowStock(alertType string) {
	if m == nil {
		return
	}
	m.LowStockSignals.WithLabelValues(alertType).Inc()
}

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
