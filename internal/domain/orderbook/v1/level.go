package orderbookv1

// Level is the aggregated state resting at a single price: the total
// open depth on each side and the FIFO queue of orders on each side. A
// price only stays in a ladder while at least one of its depths is
// positive (spec §3, "An empty level ... is absent from both ladders").
type Level struct {
	Price int64

	BidDepth int64
	AskDepth int64

	BidQueue *Queue
	AskQueue *Queue
}

// NewLevel returns an empty level at price.
func NewLevel(price int64) *Level {
	return &Level{
		Price:    price,
		BidQueue: NewQueue(),
		AskQueue: NewQueue(),
	}
}

// IsEmpty reports whether both sides of the level are flat.
func (l *Level) IsEmpty() bool {
	return l.BidDepth == 0 && l.AskDepth == 0
}

// Queue returns the FIFO queue for side.
func (l *Level) Queue(side Side) *Queue {
	if side == Bid {
		return l.BidQueue
	}
	return l.AskQueue
}

// Depth returns the current depth for side.
func (l *Level) Depth(side Side) int64 {
	if side == Bid {
		return l.BidDepth
	}
	return l.AskDepth
}

// AddDepth adjusts the depth for side by delta (delta may be negative).
func (l *Level) AddDepth(side Side, delta int64) {
	if side == Bid {
		l.BidDepth += delta
	} else {
		l.AskDepth += delta
	}
}
