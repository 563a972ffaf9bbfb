package constants

import "time"

const (
	// Broker defaults.
	DefaultEventsTopic = "webhook-events"
	KafkaBatchTimeout  = 100 * time.Millisecond
	KafkaWriteTimeout  = 10 * time.Second

	ShutdownTimeout = 10 * time.Second

	// External capability timeout applied to each transcription and
	// extraction call when the config leaves it unset.
	DefaultCapabilityTimeout = 20 * time.Second

	// Cache key prefixes.
	CacheKeyPrefixTranscript = "transcript:"

	// How long cached transcripts live when the config leaves the TTL unset.
	DefaultTranscriptTTL = 24 * time.Hour

	// Stored object suffix the aggregator scans for.
	RecordSuffix = ".json"
)
