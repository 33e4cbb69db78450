package orderbook

import orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"

// crossBid walks the ask ladder ascending, consuming liquidity at or
// below limitPrice against taker's residual numeraire, per spec §4.5.
// taker.ResidualQuantity is updated in place; the returned fills are in
// the order they occurred.
func (b *Book) crossBid(taker *orderbookv1.Order, limitPrice int64) []orderbookv1.Fill {
	var fills []orderbookv1.Fill

	for taker.ResidualQuantity > 0 {
		pAsk, ok := b.asks.Min()
		if !ok || pAsk > limitPrice {
			break
		}

		maxIndexBuyable := taker.ResidualQuantity / pAsk
		if maxIndexBuyable == 0 {
			// Dust: not enough numeraire left to buy one index unit at
			// this level. Stop; the residual is retained (spec §7).
			break
		}

		lvl := b.asks.Find(pAsk)
		queue := lvl.Queue(orderbookv1.Ask)
		stopped := false

		for {
			head, err := queue.Peek()
			if err != nil {
				break
			}
			if head.Status == orderbookv1.StatusCancelled {
				_, _ = queue.Dequeue()
				continue
			}

			aRem := head.ResidualQuantity
			if maxIndexBuyable >= aRem {
				nSpent := aRem * pAsk
				taker.ResidualQuantity -= nSpent
				maxIndexBuyable -= aRem
				lvl.AddDepth(orderbookv1.Ask, -aRem)
				head.ResidualQuantity = 0
				head.Status = orderbookv1.StatusFilled

				fills = append(fills, orderbookv1.Fill{
					Price:           pAsk,
					BidOrderID:      taker.ID,
					AskOrderID:      head.ID,
					BidTrader:       taker.Trader,
					AskTrader:       head.Trader,
					IndexFilled:     aRem,
					NumeraireFilled: nSpent,
					AskStatusAfter:  orderbookv1.StatusFilled,
				})

				_, _ = queue.Dequeue()

				if maxIndexBuyable == 0 {
					stopped = true
					break
				}
				continue
			}

			nSpent := maxIndexBuyable * pAsk
			taker.ResidualQuantity -= nSpent
			lvl.AddDepth(orderbookv1.Ask, -maxIndexBuyable)
			head.ResidualQuantity -= maxIndexBuyable
			head.Status = orderbookv1.StatusPartial

			fills = append(fills, orderbookv1.Fill{
				Price:           pAsk,
				BidOrderID:      taker.ID,
				AskOrderID:      head.ID,
				BidTrader:       taker.Trader,
				AskTrader:       head.Trader,
				IndexFilled:     maxIndexBuyable,
				NumeraireFilled: nSpent,
				AskStatusAfter:  orderbookv1.StatusPartial,
			})

			stopped = true
			break
		}

		// Capture the next price before a possible removal invalidates
		// this level (spec §4.3, "critical traversal rule").
		pAskNext, hasNext := b.asks.NextHigher(pAsk)
		if lvl.AskDepth == 0 {
			b.asks.Remove(pAsk)
		}

		if stopped || !hasNext {
			break
		}
		_ = pAskNext // next iteration re-derives the best price via Min()
	}

	return fills
}

// crossAsk walks the bid ladder descending, consuming liquidity at or
// above limitPrice against taker's residual index, per spec §4.5.
func (b *Book) crossAsk(taker *orderbookv1.Order, limitPrice int64) []orderbookv1.Fill {
	var fills []orderbookv1.Fill

	for taker.ResidualQuantity > 0 {
		pBid, ok := b.bids.Max()
		if !ok || pBid < limitPrice {
			break
		}

		lvl := b.bids.Find(pBid)
		queue := lvl.Queue(orderbookv1.Bid)
		stopped := false

		for taker.ResidualQuantity > 0 {
			head, err := queue.Peek()
			if err != nil {
				break
			}
			if head.Status == orderbookv1.StatusCancelled {
				_, _ = queue.Dequeue()
				continue
			}

			maxSellable := head.ResidualQuantity / pBid
			if maxSellable == 0 {
				// Pre-existing dust: this bid can never buy another
				// index unit at its own price. The ask-side loop is the
				// one place that evicts dust bids (spec §4.5).
				dust := head.ResidualQuantity
				head.ResidualQuantity = 0
				head.Status = orderbookv1.StatusFilled
				lvl.AddDepth(orderbookv1.Bid, -dust)
				_, _ = queue.Dequeue()
				continue
			}

			indexToFill := maxSellable
			if taker.ResidualQuantity < indexToFill {
				indexToFill = taker.ResidualQuantity
			}
			nReceived := indexToFill * pBid

			taker.ResidualQuantity -= indexToFill
			head.ResidualQuantity -= nReceived
			lvl.AddDepth(orderbookv1.Bid, -nReceived)

			statusAfter := orderbookv1.StatusPartial
			if head.ResidualQuantity/pBid == 0 {
				dust := head.ResidualQuantity
				head.ResidualQuantity = 0
				statusAfter = orderbookv1.StatusFilled
				lvl.AddDepth(orderbookv1.Bid, -dust)
				_, _ = queue.Dequeue()
			}
			head.Status = statusAfter

			fills = append(fills, orderbookv1.Fill{
				Price:           pBid,
				BidOrderID:      head.ID,
				AskOrderID:      taker.ID,
				BidTrader:       head.Trader,
				AskTrader:       taker.Trader,
				IndexFilled:     indexToFill,
				NumeraireFilled: nReceived,
				BidStatusAfter:  statusAfter,
			})

			if taker.ResidualQuantity == 0 {
				stopped = true
				break
			}
		}

		pBidNext, hasNext := b.bids.NextLower(pBid)
		if lvl.BidDepth == 0 {
			b.bids.Remove(pBid)
		}

		if stopped || !hasNext {
			break
		}
		_ = pBidNext
	}

	return fills
}
