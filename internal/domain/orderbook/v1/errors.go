package orderbookv1

import "errors"

// Error taxonomy per spec §7. All are synchronous, state-preserving on
// failure (no partial mutation is ever left behind by a call that returns
// one of these).
var (
	// ErrInvalidPrice is returned by place when price is zero for a limit order.
	ErrInvalidPrice = errors.New("orderbook: price must be positive")
	// ErrInvalidQuantity is returned by place when quantity is zero.
	ErrInvalidQuantity = errors.New("orderbook: quantity must be positive")
	// ErrUnauthorized is returned by cancel when the caller isn't the order's trader.
	ErrUnauthorized = errors.New("orderbook: caller is not the order's trader")
	// ErrOrderFilled is returned by cancel when the order already reached StatusFilled.
	ErrOrderFilled = errors.New("orderbook: order is already filled")
	// ErrOrderCancelled is returned by cancel when the order is already StatusCancelled.
	ErrOrderCancelled = errors.New("orderbook: order is already cancelled")
	// ErrMarketOrderUnsupported is returned by cancel against a market order.
	ErrMarketOrderUnsupported = errors.New("orderbook: market orders cannot be cancelled")
	// ErrInsufficientLiquidity is returned by a market order entering an empty opposite book.
	ErrInsufficientLiquidity = errors.New("orderbook: no liquidity on the opposing side")
	// ErrOrderNotFound is returned by cancel for unknown ids. GetOrder
	// reports an unknown id with ok=false instead of an error.
	ErrOrderNotFound = errors.New("orderbook: order not found")
)
