package orderreaderv1

import orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"

// PlacePayload is the wire shape of an inbound placement message on the
// order topic. It is hand-written JSON rather than protobuf-generated:
// no .proto sources for this stream exist to generate from, and JSON
// keeps the wire format legible.
type PlacePayload struct {
	Trader string `json:"trader"`
	Kind   string `json:"kind"`
	Side   string `json:"side"`
	Price  int64  `json:"price"`
	Qty    int64  `json:"qty"`
}

// ToPlaceOrderRequest converts the wire payload into the domain request,
// stamping offset as the request's Epoch source (spec §4.4).
func (p PlacePayload) ToPlaceOrderRequest(offset int64) orderbookv1.PlaceOrderRequest {
	return orderbookv1.PlaceOrderRequest{
		Trader: p.Trader,
		Kind:   orderbookv1.Kind(p.Kind),
		Side:   orderbookv1.Side(p.Side),
		Price:  p.Price,
		Qty:    p.Qty,
		Offset: offset,
	}
}

// CancelPayload is the wire shape of an inbound cancellation message.
// Cancellation travels as a distinct message type on the same topic,
// keeping Kind exactly {limit, market} on PlaceOrderRequest.
type CancelPayload struct {
	OrderID uint64 `json:"orderId"`
	Trader  string `json:"trader"`
}
