package snapshotv1

import "context"

// Store persists and loads book snapshots (spec §6.4). No on-disk format
// is prescribed by the source; this repository serializes as JSON, the
// same choice the teacher's snapshot store made.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=snapshotv1_mock
type Store interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	LoadStore(ctx context.Context) (*Snapshot, error)
}
