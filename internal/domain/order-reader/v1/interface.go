package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessageKind distinguishes the two message shapes carried on the order
// topic: new placements and cancellation requests.
type MessageKind string

const (
	// KindPlace marks a message whose payload unmarshals to PlacePayload.
	KindPlace MessageKind = "place"
	// KindCancel marks a message whose payload unmarshals to CancelPayload.
	KindCancel MessageKind = "cancel"
)

// Envelope is the outer shape every message on the order topic carries,
// tagging which of the two inner payloads to parse.
type Envelope struct {
	Type   MessageKind    `json:"type"`
	Place  *PlacePayload  `json:"place,omitempty"`
	Cancel *CancelPayload `json:"cancel,omitempty"`
}

// OrderReader reads placement and cancellation requests off the order
// topic, one message at a time, in offset order (spec §2 "Order Reader").
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderreaderv1_mock
type OrderReader interface {
	// ReadMessage blocks until the next message is available and returns
	// it along with the raw Kafka message (needed for CommitMessages).
	ReadMessage(ctx context.Context) (kafka.Message, Envelope, error)
	// SetOffset seeks the reader to offset, used to resume after a
	// snapshot restore.
	SetOffset(offset int64) error
	// CommitMessages acknowledges msgs as processed.
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close releases the underlying connection.
	Close() error
}
