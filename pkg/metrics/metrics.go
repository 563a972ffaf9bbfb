package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebhookDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Total number of webhook deliveries received (count)",
		},
		[]string{"status"},
	)

	MessagesProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_processed_total",
			Help: "Total number of messages run through the enrichment pipeline (count)",
		},
		[]string{"status"},
	)

	MessagesDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_dropped_total",
			Help: "Total number of messages dropped before persistence (count)",
		},
		[]string{"reason"},
	)

	MediaFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_fetch_total",
			Help: "Total number of media fetch attempts against the messaging platform (count)",
		},
		[]string{"status"},
	)

	TranscriptionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcription_requests_total",
			Help: "Total number of transcription attempts (count)",
		},
		[]string{"status"},
	)

	ExtractionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_requests_total",
			Help: "Total number of structured extraction attempts (count)",
		},
		[]string{"status"},
	)

	EnrichmentProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_processing_duration_ms",
			Help:    "Per-message enrichment duration in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"status"},
	)

	GatherRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gather_rows_total",
			Help: "Total number of aggregated rows emitted across all scans (count)",
		},
	)

	GatherScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gather_scan_duration_ms",
			Help:    "Full-store aggregation scan duration in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"service", "topic"},
	)

	DLQMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_messages_total",
			Help: "Total number of deliveries sent to DLQ (count)",
		},
		[]string{"service", "topic", "reason"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests seen by the rate limiter (count)",
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failed requests through circuit breaker (count)",
		},
		[]string{"name"},
	)
)

func RegisterIngestMetrics() {
	prometheus.MustRegister(
		WebhookDeliveriesTotal,
		MessagesProcessedTotal,
		MessagesDroppedTotal,
		MediaFetchTotal,
		TranscriptionRequestsTotal,
		ExtractionRequestsTotal,
		EnrichmentProcessingDuration,
		RateLimitRequestsTotal,
	)
}

func RegisterGatherMetrics() {
	prometheus.MustRegister(
		GatherRowsTotal,
		GatherScanDuration,
	)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(
		RetryAttemptsTotal,
		DLQMessagesTotal,
	)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerFailures,
	)
}

func ObserveEnrichmentDuration(d time.Duration, status string) {
	EnrichmentProcessingDuration.WithLabelValues(status).Observe(float64(d.Milliseconds()))
}

func ObserveGatherScanDuration(d time.Duration) {
	GatherScanDuration.Observe(float64(d.Milliseconds()))
}
