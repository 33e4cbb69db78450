// Package snapshotv1 defines the persisted state layout of spec §6.4: a
// point-in-time copy of the book good enough to resume matching after a
// restart without replaying every order the book has ever seen.
package snapshotv1

import orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"

// Snapshot is what gets serialized to the snapshot store: the book's own
// state plus the last order-reader offset it reflects, so a resumed
// engine knows where to pick the input stream back up.
type Snapshot struct {
	OrderOffset int64                    `json:"orderOffset"`
	Book        orderbookv1.BookSnapshot `json:"book"`
}
