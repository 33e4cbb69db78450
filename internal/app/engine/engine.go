// Package engine wires the matching core to its collaborators and runs
// it under the single-threaded cooperative model spec §5 requires: one
// goroutine owns the *orderbook.Book exclusively, processing order
// messages, snapshot ticks, and introspection queries one at a time from
// a single select loop. A second, book-blind goroutine only pumps
// decoded messages off Kafka into a channel — it never touches the book.
package engine

import (
	"context"
	"sync"
	"time"

	matchpublisherv1 "github.com/exchange-clob/matching-engine/internal/domain/match-publisher/v1"
	orderreaderv1 "github.com/exchange-clob/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/exchange-clob/matching-engine/internal/domain/snapshot/v1"
	"github.com/exchange-clob/matching-engine/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type orderMessage struct {
	raw      kafka.Message
	envelope orderreaderv1.Envelope
}

// query is a book operation dispatched onto the engine goroutine by an
// external caller (the introspection service) and executed in turn with
// every other book operation.
type query func(book orderbookv1.Book)

// Engine drives one *orderbook.Book to completion: reading placements
// and cancellations off Kafka, publishing the fills they produce, and
// periodically snapshotting state to Redis.
type Engine struct {
	book           orderbookv1.Book
	orderReader    orderreaderv1.OrderReader
	matchPublisher matchpublisherv1.MatchPublisher
	snapshotStore  snapshotv1.Store
	logger         *logger.Logger
	pair           string
	options        *Options

	queries chan query

	mu                 sync.RWMutex
	orderOffset        int64
	lastSnapshotOffset int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	matchesMutex sync.RWMutex
	totalMatches int64
}

// NewEngine returns an engine with default options.
func NewEngine(
	book orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	matchPublisher matchpublisherv1.MatchPublisher,
	snapshotStore snapshotv1.Store,
	log *logger.Logger,
	pair string,
) *Engine {
	return NewEngineWithOptions(book, orderReader, matchPublisher, snapshotStore, log, pair, DefaultEngineOptions())
}

// NewEngineWithOptions returns an engine with custom timing options,
// restoring the book from the snapshot store if one exists.
func NewEngineWithOptions(
	book orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	matchPublisher matchpublisherv1.MatchPublisher,
	snapshotStore snapshotv1.Store,
	log *logger.Logger,
	pair string,
	options *Options,
) *Engine {
	e := &Engine{
		book:           book,
		orderReader:    orderReader,
		matchPublisher: matchPublisher,
		snapshotStore:  snapshotStore,
		logger:         log.WithFields(logger.Field{Key: "pair", Value: pair}),
		pair:           pair,
		options:        options,
		queries:        make(chan query),
		orderOffset:    -1,
	}

	if err := e.loadSnapshot(context.Background()); err != nil {
		e.logger.Error(err, logger.Field{Key: "action", Value: "load_snapshot"})
	}

	return e
}

// Start begins processing. It returns once both goroutines are launched;
// it does not block.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	startOffset := e.getOrderOffset()
	if startOffset > 0 {
		startOffset++
	}
	if err := e.orderReader.SetOffset(startOffset); err != nil {
		return err
	}

	msgCh := make(chan orderMessage, 64)

	e.wg.Add(2)
	go e.pump(msgCh)
	go e.run(msgCh)

	e.logger.Info("engine started")
	return nil
}

// Stop signals both goroutines to exit and waits, bounded by ctx.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("engine stopped")
		return nil
	case <-ctx.Done():
		e.logger.Warn("engine stop timed out")
		return ctx.Err()
	}
}

// pump blocks on Kafka reads and forwards decoded messages to msgCh. It
// never touches the book — only run does.
func (e *Engine) pump(msgCh chan<- orderMessage) {
	defer e.wg.Done()
	defer close(msgCh)
	defer e.orderReader.Close()

	for {
		select {
		case <-e.ctx.Done():
			return
		default:
		}

		msg, envelope, err := e.orderReader.ReadMessage(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			e.logger.Error(err, logger.Field{Key: "action", Value: "read_order_message"})
			time.Sleep(100 * time.Millisecond)
			continue
		}

		select {
		case msgCh <- orderMessage{raw: msg, envelope: envelope}:
		case <-e.ctx.Done():
			return
		}
	}
}

// run is the single goroutine that owns the book: every mutation and
// every introspection read happens here, one at a time.
func (e *Engine) run(msgCh <-chan orderMessage) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return

		case m, ok := <-msgCh:
			if !ok {
				return
			}
			e.handleMessage(m)

		case <-ticker.C:
			if e.shouldCreateSnapshot() {
				e.createAndStoreSnapshot()
			}

		case q := <-e.queries:
			q(e.book)
		}
	}
}

// Query dispatches fn onto the engine goroutine and blocks until it has
// run, giving introspection callers a race-free read of book state
// without granting them direct access to the book (spec §5).
func (e *Engine) Query(fn func(book orderbookv1.Book)) {
	done := make(chan struct{})
	q := func(book orderbookv1.Book) {
		fn(book)
		close(done)
	}

	select {
	case e.queries <- q:
		<-done
	case <-e.ctx.Done():
	}
}

func (e *Engine) handleMessage(m orderMessage) {
	if err := e.orderReader.CommitMessages(e.ctx, m.raw); err != nil {
		e.logger.Error(err, logger.Field{Key: "action", Value: "commit_order_message"})
	}

	switch m.envelope.Type {
	case orderreaderv1.KindPlace:
		e.handlePlace(m.envelope.Place, m.raw.Offset)
	case orderreaderv1.KindCancel:
		e.handleCancel(m.envelope.Cancel)
	default:
		e.logger.Warn("unknown message type", logger.Field{Key: "type", Value: m.envelope.Type})
	}

	e.setOrderOffset(m.raw.Offset)
}

func (e *Engine) handlePlace(payload *orderreaderv1.PlacePayload, offset int64) {
	if payload == nil {
		return
	}
	req := payload.ToPlaceOrderRequest(offset)

	id, fills, err := e.book.Place(e.ctx, req)
	if err != nil {
		e.logger.Error(err,
			logger.Field{Key: "action", Value: "place_order"},
			logger.Field{Key: "trader", Value: req.Trader},
		)
		return
	}

	order, _ := e.book.GetOrder(id)
	e.logger.Info("order placed",
		logger.Field{Key: "id", Value: order.ID},
		logger.Field{Key: "trader", Value: order.Trader},
		logger.Field{Key: "side", Value: order.Side},
		logger.Field{Key: "price", Value: order.Price},
		logger.Field{Key: "originalQuantity", Value: order.OriginalQuantity},
		logger.Field{Key: "residualQuantity", Value: order.ResidualQuantity},
		logger.Field{Key: "status", Value: order.Status},
		logger.Field{Key: "epoch", Value: order.Epoch},
	)

	e.publishFills(fills)
}

func (e *Engine) handleCancel(payload *orderreaderv1.CancelPayload) {
	if payload == nil {
		return
	}
	if err := e.book.Cancel(e.ctx, payload.OrderID, payload.Trader); err != nil {
		e.logger.Error(err,
			logger.Field{Key: "action", Value: "cancel_order"},
			logger.Field{Key: "orderId", Value: payload.OrderID},
		)
	}
}

func (e *Engine) publishFills(fills []orderbookv1.Fill) {
	if len(fills) == 0 {
		return
	}

	e.matchesMutex.Lock()
	e.totalMatches += int64(len(fills))
	total := e.totalMatches
	e.matchesMutex.Unlock()

	e.logger.Info("fills executed",
		logger.Field{Key: "count", Value: len(fills)},
		logger.Field{Key: "totalMatches", Value: total},
	)

	now := time.Now()
	for _, f := range fills {
		event := matchpublisherv1.FromFill(f, now)
		if err := e.matchPublisher.PublishMatchEvent(e.ctx, event); err != nil {
			e.logger.Error(err, logger.Field{Key: "action", Value: "publish_match_event"})
		}
	}
}

func (e *Engine) shouldCreateSnapshot() bool {
	currentOffset := e.getOrderOffset()
	if currentOffset <= 0 {
		return false
	}
	return currentOffset-e.getLastSnapshotOffset() >= e.options.SnapshotOffsetDelta
}

func (e *Engine) createAndStoreSnapshot() {
	currentOffset := e.getOrderOffset()

	snap := &snapshotv1.Snapshot{
		OrderOffset: currentOffset,
		Book:        e.book.Snapshot(),
	}

	if err := e.snapshotStore.Store(e.ctx, snap); err != nil {
		e.logger.Error(err, logger.Field{Key: "action", Value: "store_snapshot"})
		return
	}

	e.setLastSnapshotOffset(currentOffset)
	e.logger.Info("snapshot stored", logger.Field{Key: "offset", Value: currentOffset})
}

func (e *Engine) loadSnapshot(ctx context.Context) error {
	snap, err := e.snapshotStore.LoadStore(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	e.book.Restore(snap.Book)
	e.mu.Lock()
	e.orderOffset = snap.OrderOffset
	e.lastSnapshotOffset = snap.OrderOffset
	e.mu.Unlock()

	e.logger.Info("book restored from snapshot", logger.Field{Key: "orderOffset", Value: snap.OrderOffset})
	return nil
}

func (e *Engine) getOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

func (e *Engine) getLastSnapshotOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshotOffset
}

func (e *Engine) setLastSnapshotOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSnapshotOffset = offset
}

// GetOrderOffset returns the last processed order offset.
func (e *Engine) GetOrderOffset() int64 { return e.getOrderOffset() }

// GetLastSnapshotOffset returns the offset of the last stored snapshot.
func (e *Engine) GetLastSnapshotOffset() int64 { return e.getLastSnapshotOffset() }

// GetTotalMatches returns the number of fills processed since start.
func (e *Engine) GetTotalMatches() int64 {
	e.matchesMutex.RLock()
	defer e.matchesMutex.RUnlock()
	return e.totalMatches
}
