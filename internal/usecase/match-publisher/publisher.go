// Package matchpublisher writes match events to Kafka, one message per
// fill, using the same writer-per-topic shape as the order-reader's
// consumer counterpart.
package matchpublisher

import (
	"context"

	matchpublisherv1 "github.com/exchange-clob/matching-engine/internal/domain/match-publisher/v1"
	"github.com/exchange-clob/matching-engine/pkg/errors"
	"github.com/exchange-clob/matching-engine/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the underlying Kafka writer.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Publisher publishes match events to Kafka.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher returns a match-event publisher writing to cfg.Topic.
func NewPublisher(cfg KafkaConfig, log *logger.Logger) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{kafkaWriter: kafkaWriter, logger: log}
}

// PublishMatchEvent writes event to the match topic.
func (p *Publisher) PublishMatchEvent(ctx context.Context, event *matchpublisherv1.MatchEvent) error {
	msg := kafka.Message{Value: matchpublisherv1.ToBytes(event)}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "bidOrderId", Value: event.BidOrderID},
			logger.Field{Key: "askOrderId", Value: event.AskOrderID},
		)
		return errors.NewTracer("failed to publish match event").Wrap(err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
