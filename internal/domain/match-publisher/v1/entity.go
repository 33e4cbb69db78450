package matchpublisherv1

import (
	"encoding/json"
	"time"

	orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// MatchEvent is the wire shape published for every fill a placement
// produces (spec §6.3, "matching-time settlement events may also be
// emitted"). One Fill produces exactly one MatchEvent.
type MatchEvent struct {
	Price           int64                `json:"price"`
	BidOrderID      uint64               `json:"bidOrderId"`
	AskOrderID      uint64               `json:"askOrderId"`
	BidTrader       string               `json:"bidTrader"`
	AskTrader       string               `json:"askTrader"`
	IndexFilled     int64                `json:"indexFilled"`
	NumeraireFilled int64                `json:"numeraireFilled"`
	BidStatusAfter  orderbookv1.Status   `json:"bidStatusAfter,omitempty"`
	AskStatusAfter  orderbookv1.Status   `json:"askStatusAfter,omitempty"`
	Timestamp       *timestamppb.Timestamp `json:"timestamp"`
}

// FromFill converts a domain Fill into its wire representation, stamped
// with the current time. timestamppb is used here purely as a
// convenient, already-vendored wire timestamp type; no other part of
// this event is protobuf-encoded.
func FromFill(fill orderbookv1.Fill, at time.Time) *MatchEvent {
	return &MatchEvent{
		Price:           fill.Price,
		BidOrderID:      fill.BidOrderID,
		AskOrderID:      fill.AskOrderID,
		BidTrader:       fill.BidTrader,
		AskTrader:       fill.AskTrader,
		IndexFilled:     fill.IndexFilled,
		NumeraireFilled: fill.NumeraireFilled,
		BidStatusAfter:  fill.BidStatusAfter,
		AskStatusAfter:  fill.AskStatusAfter,
		Timestamp:       timestamppb.New(at),
	}
}

// ToBytes marshals a match event to JSON, or nil on failure.
func ToBytes(event *MatchEvent) []byte {
	buf, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	return buf
}

// FromBytes unmarshals a match event from JSON, or nil on failure.
func FromBytes(data []byte) *MatchEvent {
	var event MatchEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}
