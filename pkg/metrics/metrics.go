package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Синхронизация очереди.
var (
	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordersync_sync_runs_total",
			Help: "Sync cycles by trigger and result",
		},
		[]string{"trigger", "result"}, // result: ok|partial|aborted|failed|dropped
	)
	SyncOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordersync_sync_orders_total",
			Help: "Orders processed by the sync engine",
		},
		[]string{"result"}, // synced|failed|skipped|recovered|reconciled
	)
	SyncDrainDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ordersync_sync_drain_duration_seconds",
			Help:    "Duration of a full queue drain",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)
	ReviewDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordersync_review_decisions_total",
			Help: "Operator decisions on orders built on stale reference data",
		},
		[]string{"decision"},
	)
)

// Состояние очереди, сети и справочников.
var (
	QueueOrders = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ordersync_queue_orders",
			Help: "Orders in the local queue by status",
		},
		[]string{"status"},
	)
	ConnectivityOnline = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ordersync_connectivity_online",
			Help: "1 if the platform reports connectivity, 0 otherwise",
		},
	)
	ConnectivityTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordersync_connectivity_transitions_total",
			Help: "Observed connectivity state changes",
		},
		[]string{"state"}, // online|offline
	)
	StaleCategories = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ordersync_reference_data_stale_categories",
			Help: "Reference data categories older than the staleness threshold",
		},
	)
)

// Удалённый бэкенд заказов.
var (
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordersync_backend_requests_total",
			Help: "Order creation calls by outcome",
		},
		[]string{"outcome"}, // accepted|rejected|malformed|transport
	)
	BackendLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ordersync_backend_request_duration_seconds",
			Help:    "Order creation call latency",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Kafka: события обновления справочников.
var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

// Кэш подтверждений бэкенда.
var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_cache_operations_total",
			Help: "Receipt cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "receipt_cache_size",
			Help: "Number of receipts currently in cache",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрация всех коллекторов в глобальном реестре; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SyncRuns, SyncOrders, SyncDrainDuration, ReviewDecisions,
			QueueOrders, ConnectivityOnline, ConnectivityTransitions, StaleCategories,
			BackendRequests, BackendLatency,
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
			CacheOps, CacheSize,
		)
	})
}
