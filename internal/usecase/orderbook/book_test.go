package orderbook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerv1 "github.com/exchange-clob/matching-engine/internal/domain/ledger/v1"
	orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"
	"github.com/exchange-clob/matching-engine/internal/usecase/ledger"
	"github.com/exchange-clob/matching-engine/internal/usecase/settlement"
)

func newTestBook(t *testing.T) (*Book, *ledger.Memory) {
	t.Helper()
	mem := ledger.NewMemory()
	driver := settlement.NewDriver(mem)
	return NewBook(driver), mem
}

func fund(mem *ledger.Memory, trader string, numeraire, index int64) {
	mem.Fund(ledgerv1.Numeraire, trader, numeraire)
	mem.Fund(ledgerv1.Index, trader, index)
}

func TestBook_RoundTrip_LimitBidCancel(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "A", 1000, 0)

	id, fills, err := book.Place(context.Background(), orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 10, Qty: 100,
	})
	require.NoError(t, err)
	assert.Empty(t, fills)
	assert.Equal(t, int64(900), mem.Balance(ledgerv1.Numeraire, "A"))

	require.NoError(t, book.Cancel(context.Background(), id, "A"))

	assert.Equal(t, int64(1000), mem.Balance(ledgerv1.Numeraire, "A"))
	_, ok := book.BestBid()
	assert.False(t, ok)

	order, ok := book.GetOrder(id)
	require.True(t, ok)
	assert.Equal(t, orderbookv1.StatusCancelled, order.Status)
	assert.Equal(t, int64(0), order.ResidualQuantity)
}

func TestBook_RoundTrip_LimitAskCancel(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "B", 0, 50)

	id, fills, err := book.Place(context.Background(), orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 10, Qty: 50,
	})
	require.NoError(t, err)
	assert.Empty(t, fills)

	require.NoError(t, book.Cancel(context.Background(), id, "B"))
	assert.Equal(t, int64(50), mem.Balance(ledgerv1.Index, "B"))
	_, ok := book.BestAsk()
	assert.False(t, ok)
}

// Scenario 1: simple full cross.
func TestBook_Scenario_SimpleCross(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "B", 0, 5)
	fund(mem, "A", 500, 0)
	ctx := context.Background()

	askID, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 100, Qty: 5,
	})
	require.NoError(t, err)

	bidID, fills, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 100, Qty: 500,
	})
	require.NoError(t, err)
	require.Len(t, fills, 1)

	bid, _ := book.GetOrder(bidID)
	ask, _ := book.GetOrder(askID)
	assert.Equal(t, orderbookv1.StatusFilled, bid.Status)
	assert.Equal(t, orderbookv1.StatusFilled, ask.Status)
	assert.Equal(t, int64(5), mem.Balance(ledgerv1.Index, "A"))
	assert.Equal(t, int64(500), mem.Balance(ledgerv1.Numeraire, "B"))

	_, okBid := book.BestBid()
	_, okAsk := book.BestAsk()
	assert.False(t, okBid)
	assert.False(t, okAsk)
}

// Scenario 2: partial fill of the aggressing bid, residual rests.
func TestBook_Scenario_PartialBidRests(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "B", 0, 3)
	fund(mem, "A", 1000, 0)
	ctx := context.Background()

	_, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 10, Qty: 3,
	})
	require.NoError(t, err)

	bidID, fills, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 10, Qty: 100,
	})
	require.NoError(t, err)
	require.Len(t, fills, 1)

	bid, _ := book.GetOrder(bidID)
	assert.Equal(t, orderbookv1.StatusPartial, bid.Status)
	assert.Equal(t, int64(70), bid.ResidualQuantity)

	bidDepth, askDepth := book.Depth(10)
	assert.Equal(t, int64(70), bidDepth)
	assert.Equal(t, int64(0), askDepth)
}

// Scenario 3: dust residual marks the bid FILLED without a refund.
func TestBook_Scenario_DustMarksFilled(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "B", 0, 9)
	fund(mem, "A", 1000, 0)
	ctx := context.Background()

	_, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 10, Qty: 9,
	})
	require.NoError(t, err)

	bidID, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 10, Qty: 95,
	})
	require.NoError(t, err)

	bid, _ := book.GetOrder(bidID)
	assert.Equal(t, orderbookv1.StatusFilled, bid.Status)
	assert.Equal(t, int64(5), bid.ResidualQuantity)

	_, okBid := book.BestBid()
	_, okAsk := book.BestAsk()
	assert.False(t, okBid)
	assert.False(t, okAsk)
}

// Scenario 4: an aggressive bid crosses two ask levels.
func TestBook_Scenario_CrossMultipleLevels(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "B", 0, 2)
	fund(mem, "C", 0, 3)
	fund(mem, "A", 1000, 0)
	ctx := context.Background()

	_, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 10, Qty: 2,
	})
	require.NoError(t, err)
	_, _, err = book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "C", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 12, Qty: 3,
	})
	require.NoError(t, err)

	bidID, fills, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 15, Qty: 100,
	})
	require.NoError(t, err)
	require.Len(t, fills, 2)

	assert.Equal(t, int64(5), mem.Balance(ledgerv1.Index, "A"))

	bid, _ := book.GetOrder(bidID)
	assert.Equal(t, orderbookv1.StatusPartial, bid.Status)
	assert.Equal(t, int64(44), bid.ResidualQuantity)

	bidDepth, _ := book.Depth(15)
	assert.Equal(t, int64(44), bidDepth)
}

// Scenario 5: a market bid exhausts liquidity and its residual is refunded.
func TestBook_Scenario_MarketBidRefundsResidual(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "B", 0, 3)
	fund(mem, "A", 100, 0)
	ctx := context.Background()

	_, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 7, Qty: 3,
	})
	require.NoError(t, err)

	id, fills, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindMarket, Side: orderbookv1.Bid, Qty: 100,
	})
	require.NoError(t, err)
	require.Len(t, fills, 1)

	assert.Equal(t, int64(79), mem.Balance(ledgerv1.Numeraire, "A"))
	assert.Equal(t, int64(3), mem.Balance(ledgerv1.Index, "A"))

	order, _ := book.GetOrder(id)
	assert.Equal(t, orderbookv1.StatusPartial, order.Status)
	assert.Equal(t, int64(0), order.ResidualQuantity)
}

// Market orders against an empty opposing ladder fail without taking custody.
func TestBook_MarketOrder_InsufficientLiquidity(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "A", 100, 0)

	_, _, err := book.Place(context.Background(), orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindMarket, Side: orderbookv1.Bid, Qty: 100,
	})
	assert.ErrorIs(t, err, orderbookv1.ErrInsufficientLiquidity)
	assert.Equal(t, int64(100), mem.Balance(ledgerv1.Numeraire, "A"))
}

// Market orders are never cancellable, even after they've rested in the registry.
func TestBook_MarketOrder_CannotBeCancelled(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "B", 0, 3)
	fund(mem, "A", 100, 0)
	ctx := context.Background()

	_, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 7, Qty: 3,
	})
	require.NoError(t, err)

	id, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindMarket, Side: orderbookv1.Bid, Qty: 100,
	})
	require.NoError(t, err)

	err = book.Cancel(ctx, id, "A")
	assert.ErrorIs(t, err, orderbookv1.ErrMarketOrderUnsupported)
}

// Scenario 6: a cancelled order at the head of a queue must not be matched;
// the engine skips its tombstone (here, removed eagerly) and proceeds to the
// next live order at that level.
func TestBook_Scenario_CancelledOrderSkipped(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "B", 50, 0)
	fund(mem, "C", 20, 0)
	fund(mem, "A", 0, 4)
	ctx := context.Background()

	bID, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 5, Qty: 50,
	})
	require.NoError(t, err)
	require.NoError(t, book.Cancel(ctx, bID, "B"))

	bidDepth, _ := book.Depth(5)
	assert.Equal(t, int64(0), bidDepth)

	cID, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "C", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 5, Qty: 20,
	})
	require.NoError(t, err)

	aID, fills, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 5, Qty: 4,
	})
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, cID, fills[0].BidOrderID)

	cOrder, _ := book.GetOrder(cID)
	aOrder, _ := book.GetOrder(aID)
	assert.Equal(t, orderbookv1.StatusFilled, cOrder.Status)
	assert.Equal(t, int64(0), cOrder.ResidualQuantity)
	assert.Equal(t, orderbookv1.StatusFilled, aOrder.Status)
}

// Price improvement: an aggressive bid above the resting ask trades at the
// ask's price, not its own limit.
func TestBook_PriceImprovementFlowsToAggressor(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "B", 0, 5)
	fund(mem, "A", 1000, 0)
	ctx := context.Background()

	_, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 10, Qty: 5,
	})
	require.NoError(t, err)

	_, fills, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 15, Qty: 50,
	})
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, int64(10), fills[0].Price)
	assert.Equal(t, int64(50), fills[0].NumeraireFilled)
}

func TestBook_Cancel_Unauthorized(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "A", 1000, 0)
	ctx := context.Background()

	id, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 10, Qty: 100,
	})
	require.NoError(t, err)

	err = book.Cancel(ctx, id, "eve")
	assert.ErrorIs(t, err, orderbookv1.ErrUnauthorized)
}

func TestBook_Cancel_AlreadyCancelledIsRejected(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "A", 1000, 0)
	ctx := context.Background()

	id, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 10, Qty: 100,
	})
	require.NoError(t, err)
	require.NoError(t, book.Cancel(ctx, id, "A"))

	err = book.Cancel(ctx, id, "A")
	assert.ErrorIs(t, err, orderbookv1.ErrOrderCancelled)
}

func TestBook_Place_RejectsInvalidQuantityAndPrice(t *testing.T) {
	book, _ := newTestBook(t)
	ctx := context.Background()

	_, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 10, Qty: 0,
	})
	assert.ErrorIs(t, err, orderbookv1.ErrInvalidQuantity)

	_, _, err = book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 0, Qty: 10,
	})
	assert.ErrorIs(t, err, orderbookv1.ErrInvalidPrice)
}

func TestBook_SnapshotRestore_PreservesRestingOrders(t *testing.T) {
	book, mem := newTestBook(t)
	fund(mem, "A", 1000, 0)
	fund(mem, "B", 0, 10)
	ctx := context.Background()

	_, _, err := book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 10, Qty: 100,
	})
	require.NoError(t, err)
	_, _, err = book.Place(ctx, orderbookv1.PlaceOrderRequest{
		Trader: "B", Kind: orderbookv1.KindLimit, Side: orderbookv1.Ask, Price: 20, Qty: 10,
	})
	require.NoError(t, err)

	snap := book.Snapshot()

	restored := NewBook(settlement.NewDriver(ledger.NewMemory()))
	restored.Restore(snap)

	bestBid, ok := restored.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(10), bestBid)

	bestAsk, ok := restored.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(20), bestAsk)

	assert.Equal(t, snap.NextID, restored.Snapshot().NextID)
}
