package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OrdersPlacedTotal        prometheus.Counter
	OrdersPlacedAmountCents  prometheus.Counter
	OrdersSettledTotal       *prometheus.CounterVec
	SettlementDuration       prometheus.Histogram
	PendingTransactionsTotal prometheus.Counter
	NotificationsSentTotal   prometheus.Counter
	NotificationsFailedTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		OrdersPlacedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_orders_placed_total",
			Help: "Orders successfully placed",
		}),
		OrdersPlacedAmountCents: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_orders_placed_amount_cents_total",
			Help: "Total amount of placed orders in cents",
		}),
		OrdersSettledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "market_orders_settled_total",
			Help: "Orders settled, by final payment status",
		}, []string{"status"}),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "market_settlement_duration_seconds",
			Help:    "Settlement transaction duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		PendingTransactionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_pending_transactions_total",
			Help: "Pending payment transactions admitted",
		}),
		NotificationsSentTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_notifications_sent_total",
			Help: "Farmer settlement notifications delivered",
		}),
		NotificationsFailedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_notifications_failed_total",
			Help: "Farmer settlement notifications that failed to deliver",
		}),
	}
}
