// Package ledgerv1 defines the token-ledger collaborator contract the
// matching engine settles fills against. The ledger itself — asset
// accounting, balances, persistence — is explicitly out of scope for
// this repository (spec §1); only the interface the settlement driver
// calls through is owned here, plus one in-memory reference
// implementation used by tests and local runs.
package ledgerv1

import "context"

// Asset identifies one of the two assets traded by the book.
type Asset string

const (
	// Numeraire is the unit-of-account asset (what bids post).
	Numeraire Asset = "numeraire"
	// Index is the traded asset (what asks post).
	Index Asset = "index"
)

// Ledger is the collaborator contract of spec §6.2: pull takes custody
// from a trader into the engine's own balance; push releases custody
// from the engine's balance back to a trader. Failures are surfaced by
// the caller, never wrapped or swallowed by the engine.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=ledgerv1_mock
type Ledger interface {
	Pull(ctx context.Context, asset Asset, account string, amount int64) error
	Push(ctx context.Context, asset Asset, account string, amount int64) error
}
