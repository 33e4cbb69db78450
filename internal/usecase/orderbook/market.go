package orderbook

import (
	"math"

	orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"
)

// noCeiling and noFloor stand in for "no price limit" when a market
// order reuses the limit crossing loops: a market BID accepts any ask
// price up to noCeiling, a market ASK accepts any bid price down to
// noFloor. Both bounds are outside any price a limit order can carry,
// so they never artificially cut a walk short (spec §4.6).
const (
	noCeiling = int64(math.MaxInt64)
	noFloor   = int64(0)
)

// crossMarketBid walks the ask ladder with no price ceiling.
func (b *Book) crossMarketBid(taker *orderbookv1.Order) []orderbookv1.Fill {
	return b.crossBid(taker, noCeiling)
}

// crossMarketAsk walks the bid ladder with no price floor.
func (b *Book) crossMarketAsk(taker *orderbookv1.Order) []orderbookv1.Fill {
	return b.crossAsk(taker, noFloor)
}
