// Package orderbook implements the matching core of spec §4: the price
// ladders, the crossing algorithms for limit and market orders, and the
// cancellation protocol. A *Book owns no lock (spec §5): it assumes a
// single goroutine calls Place/Cancel/queries to completion, one at a
// time, exactly as the engine runtime guarantees.
package orderbook

import (
	"context"
	"sort"

	orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"
	"github.com/exchange-clob/matching-engine/internal/usecase/settlement"
)

// Book is the concrete implementation of orderbookv1.Book.
type Book struct {
	bids *orderbookv1.Ladder
	asks *orderbookv1.Ladder

	orders  map[uint64]*orderbookv1.Order
	traders map[uint64]string

	nextID    uint64
	nextEpoch int64

	settlement *settlement.Driver
}

// NewBook returns an empty book settling fills through driver.
func NewBook(driver *settlement.Driver) *Book {
	return &Book{
		bids:       orderbookv1.NewLadder(),
		asks:       orderbookv1.NewLadder(),
		orders:     make(map[uint64]*orderbookv1.Order),
		traders:    make(map[uint64]string),
		nextID:     1,
		settlement: driver,
	}
}

func (b *Book) ladder(side orderbookv1.Side) *orderbookv1.Ladder {
	if side == orderbookv1.Bid {
		return b.bids
	}
	return b.asks
}

func (b *Book) opposing(side orderbookv1.Side) *orderbookv1.Ladder {
	if side == orderbookv1.Bid {
		return b.asks
	}
	return b.bids
}

func (b *Book) epochFor(offset int64) int64 {
	if offset != 0 {
		return offset
	}
	b.nextEpoch++
	return b.nextEpoch
}

// Place validates, takes custody, crosses and (if any residual survives)
// rests req as a new order. It implements spec §4.5 and §4.6.
func (b *Book) Place(ctx context.Context, req orderbookv1.PlaceOrderRequest) (uint64, []orderbookv1.Fill, error) {
	if req.Qty <= 0 {
		return 0, nil, orderbookv1.ErrInvalidQuantity
	}
	if req.Kind == orderbookv1.KindLimit && req.Price <= 0 {
		return 0, nil, orderbookv1.ErrInvalidPrice
	}

	if req.Kind == orderbookv1.KindMarket {
		if _, ok := b.opposing(req.Side).Min(); !ok {
			return 0, nil, orderbookv1.ErrInsufficientLiquidity
		}
	}

	if err := b.settlement.TakeCustody(ctx, req.Side, req.Trader, req.Qty); err != nil {
		return 0, nil, err
	}

	id := b.nextID
	b.nextID++

	price := req.Price
	if req.Kind == orderbookv1.KindMarket {
		price = orderbookv1.NoPrice
	}

	order := &orderbookv1.Order{
		ID:               id,
		Epoch:            b.epochFor(req.Offset),
		Trader:           req.Trader,
		Side:             req.Side,
		Kind:             req.Kind,
		Price:            price,
		OriginalQuantity: req.Qty,
		ResidualQuantity: req.Qty,
		Status:           orderbookv1.StatusOpen,
	}
	b.orders[id] = order
	b.traders[id] = req.Trader

	var fills []orderbookv1.Fill
	var err error
	switch {
	case req.Kind == orderbookv1.KindLimit && req.Side == orderbookv1.Bid:
		fills = b.crossBid(order, req.Price)
	case req.Kind == orderbookv1.KindLimit && req.Side == orderbookv1.Ask:
		fills = b.crossAsk(order, req.Price)
	case req.Kind == orderbookv1.KindMarket && req.Side == orderbookv1.Bid:
		fills = b.crossMarketBid(order)
	case req.Kind == orderbookv1.KindMarket && req.Side == orderbookv1.Ask:
		fills = b.crossMarketAsk(order)
	}

	for _, f := range fills {
		if settleErr := b.settlement.SettleFill(ctx, f); settleErr != nil && err == nil {
			err = settleErr
		}
	}

	if req.Kind == orderbookv1.KindMarket {
		if order.ResidualQuantity > 0 {
			refundErr := b.settlement.ReleaseResidual(ctx, req.Side, req.Trader, order.ResidualQuantity)
			if refundErr != nil && err == nil {
				err = refundErr
			}
			if order.ResidualQuantity < order.OriginalQuantity {
				order.Status = orderbookv1.StatusPartial
			} else {
				order.Status = orderbookv1.StatusOpen
			}
			order.ResidualQuantity = 0
		} else {
			order.Status = orderbookv1.StatusFilled
		}
	} else {
		b.finalizeLimitStatus(order)
		if order.Status != orderbookv1.StatusFilled {
			b.rest(order)
		}
	}

	return id, fills, err
}

// finalizeLimitStatus applies the post-crossing status rule of spec §4.5,
// including the bid-side dust rule: a bid whose residual numeraire can no
// longer buy a single index unit at its own limit price is FILLED, not
// PARTIAL, and its dust is retained rather than refunded (spec §7).
func (b *Book) finalizeLimitStatus(order *orderbookv1.Order) {
	if order.Side == orderbookv1.Bid {
		if order.ResidualQuantity/order.Price == 0 {
			order.Status = orderbookv1.StatusFilled
			return
		}
	} else if order.ResidualQuantity == 0 {
		order.Status = orderbookv1.StatusFilled
		return
	}

	if order.ResidualQuantity < order.OriginalQuantity {
		order.Status = orderbookv1.StatusPartial
	} else {
		order.Status = orderbookv1.StatusOpen
	}
}

// rest enqueues order into its level's FIFO queue and ladder membership.
func (b *Book) rest(order *orderbookv1.Order) {
	lvl := b.ladder(order.Side).GetOrCreate(order.Price)
	lvl.Queue(order.Side).Enqueue(order)
	lvl.AddDepth(order.Side, order.ResidualQuantity)
}

// Cancel implements spec §4.7.
func (b *Book) Cancel(ctx context.Context, id uint64, caller string) error {
	order, ok := b.orders[id]
	if !ok {
		return orderbookv1.ErrOrderNotFound
	}
	if order.Trader != caller {
		return orderbookv1.ErrUnauthorized
	}
	if order.Status == orderbookv1.StatusFilled {
		return orderbookv1.ErrOrderFilled
	}
	if order.Status == orderbookv1.StatusCancelled {
		return orderbookv1.ErrOrderCancelled
	}
	if order.Kind == orderbookv1.KindMarket {
		return orderbookv1.ErrMarketOrderUnsupported
	}

	residual := order.ResidualQuantity
	order.ResidualQuantity = 0
	order.Status = orderbookv1.StatusCancelled

	lvl := b.ladder(order.Side).Find(order.Price)
	if lvl != nil {
		lvl.Queue(order.Side).Remove(order)
		lvl.AddDepth(order.Side, -residual)
		if lvl.IsEmpty() {
			b.ladder(order.Side).Remove(order.Price)
		}
	}

	return b.settlement.ReleaseResidual(ctx, order.Side, caller, residual)
}

/* ---- introspection (spec §6.1) ---- */

// Depth returns the bid and ask depth resting at price.
func (b *Book) Depth(price int64) (int64, int64) {
	var bidDepth, askDepth int64
	if lvl := b.bids.Find(price); lvl != nil {
		bidDepth = lvl.BidDepth
	}
	if lvl := b.asks.Find(price); lvl != nil {
		askDepth = lvl.AskDepth
	}
	return bidDepth, askDepth
}

// BidsAt returns the ids resting at price on the bid side, in FIFO order.
func (b *Book) BidsAt(price int64) []uint64 {
	return idsAt(b.bids.Find(price), orderbookv1.Bid)
}

// AsksAt returns the ids resting at price on the ask side, in FIFO order.
func (b *Book) AsksAt(price int64) []uint64 {
	return idsAt(b.asks.Find(price), orderbookv1.Ask)
}

func idsAt(lvl *orderbookv1.Level, side orderbookv1.Side) []uint64 {
	if lvl == nil {
		return nil
	}
	orders := lvl.Queue(side).ToList()
	ids := make([]uint64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

// BestBid returns the highest resting bid price, if any.
func (b *Book) BestBid() (int64, bool) { return b.bids.Max() }

// BestAsk returns the lowest resting ask price, if any.
func (b *Book) BestAsk() (int64, bool) { return b.asks.Min() }

// AllBidPrices returns every bid price, descending.
func (b *Book) AllBidPrices() []int64 { return b.bids.PricesDescending() }

// AllAskPrices returns every ask price, ascending.
func (b *Book) AllAskPrices() []int64 { return b.asks.Prices() }

// GetOrder returns the order record for id, if it exists. Terminal
// orders remain retrievable (spec §3, "Never destroyed").
func (b *Book) GetOrder(id uint64) (orderbookv1.Order, bool) {
	o, ok := b.orders[id]
	if !ok {
		return orderbookv1.Order{}, false
	}
	return *o, true
}

/* ---- persisted state layout (spec §6.4) ---- */

// Snapshot returns a serializable copy of the book's state.
func (b *Book) Snapshot() orderbookv1.BookSnapshot {
	ids := make([]uint64, 0, len(b.orders))
	for id := range b.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	orders := make([]orderbookv1.Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, *b.orders[id])
	}

	return orderbookv1.BookSnapshot{
		NextID: b.nextID,
		Orders: orders,
	}
}

// Restore rebuilds the book from a snapshot: registry, ladders and
// queues are all reconstructed by replaying orders in ascending id
// order, which reproduces FIFO placement order exactly (spec §6.4).
func (b *Book) Restore(snap orderbookv1.BookSnapshot) {
	b.bids = orderbookv1.NewLadder()
	b.asks = orderbookv1.NewLadder()
	b.orders = make(map[uint64]*orderbookv1.Order)
	b.traders = make(map[uint64]string)
	b.nextID = snap.NextID

	for i := range snap.Orders {
		order := snap.Orders[i]
		b.orders[order.ID] = &order
		b.traders[order.ID] = order.Trader

		resting := order.Kind == orderbookv1.KindLimit &&
			(order.Status == orderbookv1.StatusOpen || order.Status == orderbookv1.StatusPartial)
		if resting {
			b.rest(&order)
		}
	}
}
