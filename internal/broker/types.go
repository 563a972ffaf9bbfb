// Package broker moves webhook deliveries between the intake endpoint and
// the enrichment pipeline with at-least-once semantics.
package broker

import (
	"context"
	"encoding/json"
	"time"
)

// Delivery is one webhook delivery in flight: the envelope exactly as
// received, plus the intake-assigned id used for correlation.
type Delivery struct {
	ID         string          `json:"id"`
	ReceivedAt time.Time       `json:"received_at"`
	Payload    json.RawMessage `json:"payload"`
}

// DLQEntry wraps a delivery that exhausted its processing retries.
type DLQEntry struct {
	Delivery    Delivery  `json:"delivery"`
	Reason      string    `json:"reason"`
	SourceTopic string    `json:"source_topic"`
	FailedAt    time.Time `json:"failed_at"`
}

type HandlerFunc func(ctx context.Context, delivery Delivery) error

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	Close() error
}

type Consumer interface {
	Consume(ctx context.Context, topic string, handler HandlerFunc) error
	Close() error
	SetServiceName(name string)
}
