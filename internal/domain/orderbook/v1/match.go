package orderbookv1

// Fill records one settlement instruction produced while crossing a
// single resting order against an incoming (taker) order. The matching
// engine emits one Fill per resting order it consumes or partially
// consumes; the settlement driver turns each into a ledger credit pair.
type Fill struct {
	Price int64

	BidOrderID uint64
	AskOrderID uint64
	BidTrader  string
	AskTrader  string

	// IndexFilled is the amount of index asset that changed hands in
	// this fill (credited to the bid trader, debited from the ask
	// trader's posted custody).
	IndexFilled int64
	// NumeraireFilled is the amount of numeraire asset that changed
	// hands (credited to the ask trader, debited from the bid trader's
	// posted custody).
	NumeraireFilled int64

	BidStatusAfter Status
	AskStatusAfter Status
}
