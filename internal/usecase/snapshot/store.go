// Package snapshot persists and loads book snapshots through Redis,
// best-effort: without a snapshot the engine starts from an empty book
// and reads the order topic from its latest offset, so earlier orders
// are not replayed (spec §6.4 prescribes no on-disk format, only the
// maps and counter that must round-trip).
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/exchange-clob/matching-engine/pkg/errors"
	"github.com/exchange-clob/matching-engine/pkg/logger"
	"github.com/exchange-clob/matching-engine/pkg/redis"

	snapshotv1 "github.com/exchange-clob/matching-engine/internal/domain/snapshot/v1"
)

// Store persists book snapshots for one trading pair under a Redis key.
type Store struct {
	pair        string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewStore returns a snapshot store for pair backed by redisclient.
func NewStore(redisclient redis.Client, pair string, logger *logger.Logger) *Store {
	return &Store{
		pair:        pair,
		redisclient: redisclient,
		logger:      logger,
	}
}

// Store serializes snapshot as JSON and writes it under the pair's key.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "pair", Value: s.pair})
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.pair, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "pair", Value: s.pair})
		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}

	s.logger.InfoContext(ctx, fmt.Sprintf("snapshot stored for pair %s", s.pair),
		logger.Field{Key: "pair", Value: s.pair},
		logger.Field{Key: "orderOffset", Value: snapshot.OrderOffset},
	)
	return nil
}

// LoadStore reads and deserializes the most recently stored snapshot for
// the pair, or returns (nil, nil) if none has ever been stored.
func (s *Store) LoadStore(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.pair)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "pair", Value: s.pair})
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("no snapshot found for pair %s", s.pair),
			logger.Field{Key: "pair", Value: s.pair})
		return nil, nil
	}

	var snap snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "pair", Value: s.pair})
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}

	return &snap, nil
}
