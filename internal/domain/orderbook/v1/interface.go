package orderbookv1

import "context"

// Book is the matching core's public surface: placement, cancellation
// and the read-only introspection queries of spec §6.1. Implementations
// must run single-threaded (spec §5) — the engine runtime is the only
// caller and serializes access by construction.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Book interface {
	// Place admits a new order, crossing it against resting liquidity
	// and resting any residual. It returns the assigned order id.
	Place(ctx context.Context, req PlaceOrderRequest) (uint64, []Fill, error)
	// Cancel withdraws order id on behalf of caller.
	Cancel(ctx context.Context, id uint64, caller string) error

	Depth(price int64) (bidDepth, askDepth int64)
	BidsAt(price int64) []uint64
	AsksAt(price int64) []uint64
	BestBid() (int64, bool)
	BestAsk() (int64, bool)
	AllBidPrices() []int64
	AllAskPrices() []int64
	GetOrder(id uint64) (Order, bool)

	// Snapshot/Restore back the persisted state layout of spec §6.4.
	Snapshot() BookSnapshot
	Restore(BookSnapshot)
}

// BookSnapshot is the serializable form of the book's persisted state:
// every order record plus the counter needed to resume id allocation.
// Queue/ladder membership is rebuilt from the order records on Restore
// rather than serialized directly, since it is fully determined by
// (side, price, status, placement order) — placement order is recovered
// by replaying orders in ascending ID order.
type BookSnapshot struct {
	NextID uint64
	Orders []Order
}
