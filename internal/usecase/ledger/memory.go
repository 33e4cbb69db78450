// Package ledger provides a reference Ledger implementation for tests
// and local runs. It is intentionally minimal: real asset accounting
// (persistence, double-entry bookkeeping, reconciliation) is explicitly
// out of scope for this repository (spec §1) and belongs to a separate
// service in production.
package ledger

import (
	"context"
	"fmt"
	"sync"

	ledgerv1 "github.com/exchange-clob/matching-engine/internal/domain/ledger/v1"
)

// Memory is an in-process, mutex-guarded balance sheet keyed by
// (asset, account). Pull refuses to take more than an account holds.
// Push debits the "__engine__" custody account without a balance check;
// the matching engine only ever pushes what a trader has already posted
// as custody, so a negative custody balance would indicate a bug
// upstream.
type Memory struct {
	mu       sync.Mutex
	balances map[ledgerv1.Asset]map[string]int64
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		balances: map[ledgerv1.Asset]map[string]int64{
			ledgerv1.Numeraire: {},
			ledgerv1.Index:     {},
		},
	}
}

// Fund credits account with amount of asset, for test setup.
func (m *Memory) Fund(asset ledgerv1.Asset, account string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[asset][account] += amount
}

// Balance returns account's current balance of asset.
func (m *Memory) Balance(asset ledgerv1.Asset, account string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[asset][account]
}

// Pull implements ledgerv1.Ledger.
func (m *Memory) Pull(_ context.Context, asset ledgerv1.Asset, account string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[asset][account] < amount {
		return fmt.Errorf("ledger: %s has insufficient %s balance: has %d, needs %d",
			account, asset, m.balances[asset][account], amount)
	}
	m.balances[asset][account] -= amount
	m.balances[asset]["__engine__"] += amount
	return nil
}

// Push implements ledgerv1.Ledger.
func (m *Memory) Push(_ context.Context, asset ledgerv1.Asset, account string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[asset]["__engine__"] -= amount
	m.balances[asset][account] += amount
	return nil
}
