package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"vigia/internal/config"
	"vigia/internal/constants"
	"vigia/internal/logger"
	"vigia/pkg/errors"
	"vigia/pkg/logging"
	"vigia/pkg/metrics"
	"vigia/pkg/retry"
	"vigia/pkg/tracing"
)

type KafkaProducer struct {
	writer *kafka.Writer
	logger logger.Logger
}

func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: constants.KafkaBatchTimeout,
		WriteTimeout: constants.KafkaWriteTimeout,
		Async:        false,
	}
	return &KafkaProducer{writer: w, logger: log}
}

func (p *KafkaProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	headers := tracing.InjectTraceContext(ctx, []kafka.Header{})

	err = p.writer.WriteMessages(ctx,
		kafka.Message{
			Topic:   topic,
			Key:     []byte(key),
			Value:   body,
			Headers: headers,
			Time:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type KafkaConsumer struct {
	cfg         config.KafkaConfig
	wg          sync.WaitGroup
	reader      *kafka.Reader
	logger      logger.Logger
	dlqProducer Producer
	serviceName string
}

func NewKafkaConsumer(cfg config.KafkaConfig, log logger.Logger) *KafkaConsumer {
	consumer := &KafkaConsumer{
		cfg:         cfg,
		logger:      log,
		serviceName: "unknown",
	}

	if cfg.DLQTopic != "" {
		consumer.dlqProducer = NewKafkaProducer(cfg, log)
	}

	return consumer
}

func (c *KafkaConsumer) SetServiceName(name string) {
	c.serviceName = name
}

// Consume fetches deliveries from topic until the context is canceled.
// Commits happen after processing, so a crash mid-delivery redelivers; the
// pipeline's idempotent output keys absorb the duplicate.
func (c *KafkaConsumer) Consume(ctx context.Context, topic string, handler HandlerFunc) error {
	c.logger.Infow("Creating Kafka reader",
		"topic", topic,
		"brokers", c.cfg.Brokers,
		"group_id", c.cfg.GroupID,
		"service_name", c.serviceName,
	)

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		GroupID:  c.cfg.GroupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		consumeCtx := logging.WithServiceName(ctx, c.serviceName)
		c.logger.InfowCtx(consumeCtx, "Started consuming",
			"topic", topic,
		)

		for {
			m, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.InfowCtx(consumeCtx, "Stopped consuming",
						"topic", topic,
						"reason", "context canceled",
					)
					return
				}
				c.logger.ErrorwCtx(consumeCtx, "Error fetching kafka message",
					"error", err,
					"topic", topic,
				)
				time.Sleep(time.Second)
				continue
			}

			var delivery Delivery
			if err := json.Unmarshal(m.Value, &delivery); err != nil {
				c.logger.ErrorwCtx(consumeCtx, "Failed to unmarshal delivery",
					"error", err,
					"topic", topic,
				)
				_ = c.reader.CommitMessages(ctx, m)
				continue
			}

			c.handleDelivery(ctx, m, delivery, handler, topic)
		}
	}()

	<-ctx.Done()
	return ctx.Err()
}

func (c *KafkaConsumer) handleDelivery(ctx context.Context, m kafka.Message, delivery Delivery, handler HandlerFunc, topic string) {
	msgCtx, span := tracing.StartSpanFromKafkaMessage(ctx, "kafka.consume", m.Headers)
	defer span.End()

	msgCtx = logging.WithDeliveryID(msgCtx, delivery.ID)
	msgCtx = logging.WithServiceName(msgCtx, c.serviceName)

	if err := c.processWithRetry(msgCtx, delivery, handler, topic); err != nil {
		c.logger.ErrorwCtx(msgCtx, "Failed to process delivery after retries",
			"error", err,
			"topic", topic,
		)
		if c.dlqProducer != nil && c.cfg.DLQTopic != "" {
			if dlqErr := c.sendToDLQ(msgCtx, delivery, err, topic); dlqErr != nil {
				c.logger.ErrorwCtx(msgCtx, "Failed to send delivery to DLQ",
					"error", dlqErr,
					"topic", topic,
				)
			}
		} else {
			c.logger.WarnwCtx(msgCtx, "No DLQ configured, committing delivery to avoid blocking",
				"topic", topic,
			)
		}
		_ = c.reader.CommitMessages(ctx, m)
		return
	}

	if err := c.reader.CommitMessages(ctx, m); err != nil {
		c.logger.ErrorwCtx(msgCtx, "Failed to commit delivery",
			"error", err,
			"topic", topic,
		)
	}
}

func (c *KafkaConsumer) Close() error {
	var err error
	if c.reader != nil {
		err = c.reader.Close()
	}
	if c.dlqProducer != nil {
		if closeErr := c.dlqProducer.Close(); closeErr != nil {
			if err == nil {
				err = closeErr
			}
		}
	}
	c.wg.Wait()
	return err
}

func (c *KafkaConsumer) processWithRetry(ctx context.Context, delivery Delivery, handler HandlerFunc, topic string) error {
	policy := retry.DefaultPolicy()

	if c.cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = c.cfg.Retry.MaxAttempts
	}
	if c.cfg.Retry.InitialInterval > 0 {
		policy.InitialInterval = c.cfg.Retry.InitialInterval
	}
	if c.cfg.Retry.MaxInterval > 0 {
		policy.MaxInterval = c.cfg.Retry.MaxInterval
	}
	if c.cfg.Retry.Multiplier > 0 {
		policy.Multiplier = c.cfg.Retry.Multiplier
	}
	if c.cfg.Retry.MaxElapsedTime > 0 {
		policy.MaxElapsedTime = c.cfg.Retry.MaxElapsedTime
	}

	return retry.RetryWithCallback(ctx, policy, func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.RecoverPanic(r)
				c.logger.ErrorwCtx(ctx, "Panic recovered during delivery processing",
					"error", err,
					"topic", topic,
				)
			}
		}()
		return handler(ctx, delivery)
	}, func(attempt int, err error, nextDelay time.Duration) {
		metrics.RetryAttemptsTotal.WithLabelValues(c.serviceName, topic).Inc()
		c.logger.WarnwCtx(ctx, "Retrying delivery processing",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"next_delay", nextDelay,
			"error", err,
			"topic", topic,
		)
	})
}

func (c *KafkaConsumer) sendToDLQ(ctx context.Context, delivery Delivery, originalErr error, sourceTopic string) error {
	entry := DLQEntry{
		Delivery:    delivery,
		Reason:      originalErr.Error(),
		SourceTopic: sourceTopic,
		FailedAt:    time.Now().UTC(),
	}

	if err := c.dlqProducer.Publish(ctx, c.cfg.DLQTopic, delivery.ID, entry); err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}

	metrics.DLQMessagesTotal.WithLabelValues(c.serviceName, sourceTopic, "max_retries_exceeded").Inc()
	c.logger.InfowCtx(ctx, "Delivery sent to DLQ",
		"source_topic", sourceTopic,
		"dlq_topic", c.cfg.DLQTopic,
		"reason", originalErr.Error(),
	)

	return nil
}
