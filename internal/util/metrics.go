package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_searches_total",
		Help: "Total number of catalog search requests",
	})

	CatalogFilterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_filter_duration_seconds",
		Help:    "Time spent filtering the catalog snapshot",
		Buckets: prometheus.DefBuckets,
	})

	CatalogSnapshotSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_snapshot_products",
		Help: "Number of products in the current catalog snapshot",
	})

	CatalogRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_refresh_failures_total",
		Help: "Total number of failed catalog snapshot refreshes",
	})

	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart state transitions",
	}, []string{"op"})

	CartPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Total number of failed cart snapshot writes",
	})

	FavoriteOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favorite_operations_total",
		Help: "Total number of favorites mutations",
	}, []string{"op"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created at checkout",
	})

	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of checkout attempts",
	}, []string{"status"})

	PaymentProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_processing_latency_seconds",
		Help:    "Latency of payment processing",
		Buckets: prometheus.DefBuckets,
	})

	AnalyticsEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_events_total",
		Help: "Total number of analytics events processed",
	}, []string{"type"})

	AnalyticsEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analytics_events_dropped_total",
		Help: "Total number of analytics events that could not be published",
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
