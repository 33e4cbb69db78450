// Package orderreader implements the order topic consumer: a thin
// wrapper over a Kafka reader that decodes each message's envelope
// before handing it to the engine runtime.
package orderreader

import (
	"context"
	"encoding/json"

	orderreaderv1 "github.com/exchange-clob/matching-engine/internal/domain/order-reader/v1"
	"github.com/exchange-clob/matching-engine/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the underlying Kafka reader.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Reader consumes placement and cancellation requests from Kafka.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader returns an order-topic reader starting at the last offset.
func NewReader(cfg KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{kafkaReader: kafkaReader, logger: log}
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset seeks the reader to offset, used to resume from a snapshot.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage blocks for the next message and decodes its envelope.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, orderreaderv1.Envelope, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, orderreaderv1.Envelope{}, err
	}

	var envelope orderreaderv1.Envelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		r.logError(err, "UnmarshalEnvelope")
		return msg, orderreaderv1.Envelope{}, err
	}

	r.logger.Info("read order message",
		logger.Field{Key: "type", Value: envelope.Type},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return msg, envelope, nil
}

// CommitMessages acknowledges msgs as processed. Left a no-op like the
// upstream reader: this reader runs without consumer-group commits,
// relying on the engine's own snapshot offset for resumption instead.
func (r *Reader) CommitMessages(_ context.Context, _ ...kafka.Message) error {
	return nil
}

// Close releases the underlying Kafka connection.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
