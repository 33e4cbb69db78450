// Package settlement translates matching-engine fills and custody events
// into calls against the token-ledger collaborator (spec §6.2). It is
// the "Settlement Driver" component of spec §2: it never decides *what*
// to settle, only turns already-decided amounts into Pull/Push calls.
package settlement

import (
	"context"

	ledgerv1 "github.com/exchange-clob/matching-engine/internal/domain/ledger/v1"
	orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"
)

// Driver settles custody and fills against a Ledger collaborator.
type Driver struct {
	ledger ledgerv1.Ledger
}

// NewDriver returns a settlement driver backed by ledger.
func NewDriver(ledger ledgerv1.Ledger) *Driver {
	return &Driver{ledger: ledger}
}

// assetFor returns the asset a given side posts as custody: numeraire
// for a bid, index for an ask (spec §4.5 "Custody").
func assetFor(side orderbookv1.Side) ledgerv1.Asset {
	if side == orderbookv1.Bid {
		return ledgerv1.Numeraire
	}
	return ledgerv1.Index
}

// TakeCustody pulls qty of the side's posted asset from trader into the
// engine's balance, ahead of crossing.
func (d *Driver) TakeCustody(ctx context.Context, side orderbookv1.Side, trader string, qty int64) error {
	if qty <= 0 {
		return nil
	}
	return d.ledger.Pull(ctx, assetFor(side), trader, qty)
}

// ReleaseResidual pushes qty of the side's posted asset back to trader:
// used on cancel (refund of residual) and on market-order leftover
// (spec §4.6, "refunded to the taker").
func (d *Driver) ReleaseResidual(ctx context.Context, side orderbookv1.Side, trader string, qty int64) error {
	if qty <= 0 {
		return nil
	}
	return d.ledger.Push(ctx, assetFor(side), trader, qty)
}

// SettleFill pushes both sides of a single fill: numeraire to the ask
// trader, index to the bid trader (spec §4.5 step by step).
func (d *Driver) SettleFill(ctx context.Context, fill orderbookv1.Fill) error {
	if fill.NumeraireFilled > 0 {
		if err := d.ledger.Push(ctx, ledgerv1.Numeraire, fill.AskTrader, fill.NumeraireFilled); err != nil {
			return err
		}
	}
	if fill.IndexFilled > 0 {
		if err := d.ledger.Push(ctx, ledgerv1.Index, fill.BidTrader, fill.IndexFilled); err != nil {
			return err
		}
	}
	return nil
}
