package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of rejected order creations",
	}, []string{"reason"})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Total number of order status transitions",
	}, []string{"status"})

	OrderTransitionsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_failed_total",
		Help: "Total number of rejected status transitions",
	}, []string{"reason"})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	TableOccupiedRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_occupied_rejections_total",
		Help: "Order creations rejected because the table was occupied",
	})

	OrderEditsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_edits_total",
		Help: "Total number of committed order item edits",
	})

	OrderEditsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_edits_rejected_total",
		Help: "Item edits rejected because the order was no longer editable",
	})

	TableCallsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_calls_created_total",
		Help: "Total number of table calls created",
	})

	TableCallsAttendedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_calls_attended_total",
		Help: "Total number of table calls attended",
	})

	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "order_subscriptions_active",
		Help: "Currently open live order subscriptions",
	})

	OrderCreateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_create_latency_seconds",
		Help:    "Latency of order creation including the occupancy check",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
