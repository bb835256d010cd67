package worker

import "github.com/prometheus/client_golang/prometheus"

var (
	ordersProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "worker_orders_processed_total",
		Help: "Total new_order messages processed and acked",
	})
	ordersFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_orders_failed_total",
		Help: "Total new_order messages nacked, by reason",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(ordersProcessed, ordersFailed)
}
