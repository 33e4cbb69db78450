// Package orderbookv1 holds the wire-independent types shared by the
// matching core: orders, sides, statuses and the price-ladder primitives
// built on top of them.
package orderbookv1

// Side identifies which side of the book an order rests or aggresses on.
type Side string

const (
	// Bid is an offer to buy index with numeraire.
	Bid Side = "bid"
	// Ask is an offer to sell index for numeraire.
	Ask Side = "ask"
)

// Kind distinguishes limit orders (which may rest) from market orders
// (which never rest and are never cancellable).
type Kind string

const (
	// KindLimit orders rest on the book when they don't fully cross.
	KindLimit Kind = "limit"
	// KindMarket orders sweep the opposing side and refund any residual.
	KindMarket Kind = "market"
)

// Status is the lifecycle state of an order.
type Status string

const (
	// StatusOpen is the initial state of a resting order that has not traded.
	StatusOpen Status = "open"
	// StatusPartial means some but not all of the order has traded.
	StatusPartial Status = "partial"
	// StatusFilled is terminal: no more of the order will ever trade.
	StatusFilled Status = "filled"
	// StatusCancelled is terminal: the owner withdrew the order.
	StatusCancelled Status = "cancelled"
)

// NoPrice is the sentinel price for orders that carry no limit, i.e.
// market orders. It replaces the source's overloaded "price 1" convention
// (see DESIGN.md, market-order reference price).
const NoPrice int64 = 0

// NoOrderID is the sentinel id meaning "no order" / "not found".
const NoOrderID uint64 = 0

// Order is a single resting or historical order record. It is never
// destroyed once created; the registry keeps it for introspection even
// after it terminates.
//
// Quantity units are asymmetric by design (see spec §3, "Units
// discipline"): for a Bid, OriginalQuantity/ResidualQuantity are
// numeraire; for an Ask they are index. This mirrors how a trader
// naturally states an order ("spend N numeraire" vs. "sell N index") and
// must be preserved for the matching arithmetic in the orderbook
// usecase (book.go, limit.go) to be correct.
type Order struct {
	ID     uint64
	Epoch  int64
	Trader string

	Side  Side
	Kind  Kind
	Price int64

	OriginalQuantity int64
	ResidualQuantity int64
	Status           Status

	// next/prev form the intrusive doubly-linked FIFO queue for the price
	// level this order rests at. Only meaningful while the order is
	// enqueued; nil otherwise. See queue.go.
	next *Order
	prev *Order
}

// IsBid reports whether the order buys index with numeraire.
func (o *Order) IsBid() bool { return o.Side == Bid }

// IsAsk reports whether the order sells index for numeraire.
func (o *Order) IsAsk() bool { return o.Side == Ask }

// IsTerminal reports whether the order can never trade again.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusFilled || o.Status == StatusCancelled
}

// PlaceOrderRequest is the transport-independent shape of an inbound
// placement. It carries exactly the two kinds spec.md §3 defines
// (limit, market); cancellation is a distinct wire message translated
// by the engine into a Book.Cancel call rather than a third Kind value.
type PlaceOrderRequest struct {
	Trader string
	Kind   Kind
	Side   Side
	Price  int64
	Qty    int64

	// Offset is the Kafka offset the request was read at, when the
	// engine is driven by the order reader; the book uses it as the
	// order's Epoch when non-zero, falling back to an internal counter
	// otherwise (spec §4.4, "epoch... used only for observability").
	Offset int64
}
