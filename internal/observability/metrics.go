// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Event processing metrics
	EventsProcessed *prometheus.CounterVec
	EventsDropped   *prometheus.CounterVec
	BufferedBlocks  *prometheus.GaugeVec

	// Entity metrics
	PoolsCreated  *prometheus.CounterVec
	TokensCreated *prometheus.CounterVec
	PoolsSkipped  *prometheus.CounterVec

	// Oracle metrics
	OracleMisses    *prometheus.CounterVec
	NativePriceUSD  *prometheus.GaugeVec
	MetadataLookups *prometheus.CounterVec

	// Latency metrics
	EventProcessingLatency *prometheus.HistogramVec
	RPCCallLatency         *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastProcessedBlock     *prometheus.GaugeVec
	LastProcessedTimestamp *prometheus.GaugeVec
}

// NewMetrics creates a Metrics instance registered on a private
// registry, so repeated construction in tests does not collide with
// the default registerer.
func NewMetrics(namespace string) *Metrics {
	return newMetrics(namespace, prometheus.NewRegistry())
}

// NewDefaultMetrics registers on the process-wide default registry for
// serving via the standard /metrics handler.
func NewDefaultMetrics(namespace string) *Metrics {
	return newMetrics(namespace, prometheus.DefaultRegisterer)
}

func newMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "univ3_pool_lab"
	}
	factory := promauto.With(reg)

	return &Metrics{
		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "events_processed_total",
			Help:      "Total number of events processed by chain and kind",
		}, []string{"chain", "kind"}),
		EventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "events_dropped_total",
			Help:      "Total number of events dropped by chain and reason",
		}, []string{"chain", "reason"}),
		BufferedBlocks: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "buffered_blocks",
			Help:      "Blocks buffered awaiting the finality lag window per chain",
		}, []string{"chain"}),

		PoolsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "pools_created_total",
			Help:      "Total number of pools created by chain",
		}, []string{"chain"}),
		TokensCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "tokens_created_total",
			Help:      "Total number of tokens created by chain",
		}, []string{"chain"}),
		PoolsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "pools_skipped_total",
			Help:      "Total number of pool creations suppressed by chain",
		}, []string{"chain"}),

		OracleMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "oracle_misses_total",
			Help:      "Total number of price derivations that returned unknown",
		}, []string{"chain"}),
		NativePriceUSD: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "native_price_usd",
			Help:      "Latest native asset USD price per chain",
		}, []string{"chain"}),
		MetadataLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokenmeta",
			Name:      "metadata_lookups_total",
			Help:      "Total number of token metadata lookups by source and status",
		}, []string{"source", "status"}),

		EventProcessingLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "event_processing_latency_seconds",
			Help:      "Event processing latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_latency_seconds",
			Help:      "Chain RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastProcessedBlock: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_processed_block",
			Help:      "Highest block number processed per chain",
		}, []string{"chain"}),
		LastProcessedTimestamp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_processed_timestamp",
			Help:      "Unix timestamp of the last processed event per chain",
		}, []string{"chain"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
