package broker

import (
	"context"
	"time"

	"vigia/internal/constants"
)

// DeliveryPublisher adapts a Producer to the webhook intake's hand-off: the
// raw envelope bytes are wrapped in a Delivery and written to the events
// topic.
type DeliveryPublisher struct {
	producer Producer
	topic    string
}

func NewDeliveryPublisher(producer Producer, topic string) *DeliveryPublisher {
	if topic == "" {
		topic = constants.DefaultEventsTopic
	}
	return &DeliveryPublisher{producer: producer, topic: topic}
}

func (p *DeliveryPublisher) Publish(ctx context.Context, deliveryID string, payload []byte) error {
	return p.producer.Publish(ctx, p.topic, deliveryID, Delivery{
		ID:         deliveryID,
		ReceivedAt: time.Now().UTC(),
		Payload:    payload,
	})
}
