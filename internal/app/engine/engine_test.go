package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerv1 "github.com/exchange-clob/matching-engine/internal/domain/ledger/v1"
	matchpublisherv1 "github.com/exchange-clob/matching-engine/internal/domain/match-publisher/v1"
	orderreaderv1 "github.com/exchange-clob/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/exchange-clob/matching-engine/internal/domain/snapshot/v1"
	"github.com/exchange-clob/matching-engine/internal/usecase/ledger"
	"github.com/exchange-clob/matching-engine/internal/usecase/orderbook"
	"github.com/exchange-clob/matching-engine/internal/usecase/settlement"
	"github.com/exchange-clob/matching-engine/pkg/logger"
)

// fakeReader is a hand-written OrderReader test double: the domain
// interfaces here are narrow enough that a generated mock would add
// ceremony without adding confidence, so tests use plain fakes instead.
type fakeReader struct {
	mu       sync.Mutex
	messages []orderreaderv1.Envelope
	pos      int
	offset   int64
	closed   bool
}

func newFakeReader(envelopes ...orderreaderv1.Envelope) *fakeReader {
	return &fakeReader{messages: envelopes}
}

func (f *fakeReader) SetOffset(offset int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offset = offset
	return nil
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, orderreaderv1.Envelope, error) {
	for {
		f.mu.Lock()
		if f.pos < len(f.messages) {
			env := f.messages[f.pos]
			offset := int64(f.pos)
			f.pos++
			f.mu.Unlock()
			return kafka.Message{Offset: offset}, env, nil
		}
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return kafka.Message{}, orderreaderv1.Envelope{}, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (f *fakeReader) CommitMessages(context.Context, ...kafka.Message) error { return nil }

func (f *fakeReader) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*matchpublisherv1.MatchEvent
}

func (f *fakePublisher) PublishMatchEvent(_ context.Context, event *matchpublisherv1.MatchEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type fakeSnapshotStore struct {
	mu    sync.Mutex
	saved *snapshotv1.Snapshot
}

func (f *fakeSnapshotStore) Store(_ context.Context, snap *snapshotv1.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = snap
	return nil
}

func (f *fakeSnapshotStore) LoadStore(context.Context) (*snapshotv1.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, nil
}

func placeEnvelope(trader, kind, side string, price, qty int64) orderreaderv1.Envelope {
	return orderreaderv1.Envelope{
		Type: orderreaderv1.KindPlace,
		Place: &orderreaderv1.PlacePayload{
			Trader: trader, Kind: kind, Side: side, Price: price, Qty: qty,
		},
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger()
	require.NoError(t, err)
	return log
}

func TestEngine_ProcessesPlacementAndPublishesFills(t *testing.T) {
	mem := ledger.NewMemory()
	mem.Fund(ledgerv1.Index, "B", 5)
	mem.Fund(ledgerv1.Numeraire, "A", 500)

	book := orderbook.NewBook(settlement.NewDriver(mem))
	reader := newFakeReader(
		placeEnvelope("B", string(orderbookv1.KindLimit), string(orderbookv1.Ask), 100, 5),
		placeEnvelope("A", string(orderbookv1.KindLimit), string(orderbookv1.Bid), 100, 500),
	)
	publisher := &fakePublisher{}
	store := &fakeSnapshotStore{}

	eng := NewEngine(book, reader, publisher, store, testLogger(t), "index/numeraire")
	require.NoError(t, eng.Start(context.Background()))

	require.Eventually(t, func() bool {
		return publisher.count() >= 1
	}, time.Second, 5*time.Millisecond)

	var bestBid, bestAsk bool
	eng.Query(func(b orderbookv1.Book) {
		_, bestBid = b.BestBid()
		_, bestAsk = b.BestAsk()
	})
	assert.False(t, bestBid)
	assert.False(t, bestAsk)

	require.NoError(t, eng.Stop(context.Background()))
}

func TestEngine_CancelViaMessage(t *testing.T) {
	mem := ledger.NewMemory()
	mem.Fund(ledgerv1.Numeraire, "A", 1000)

	book := orderbook.NewBook(settlement.NewDriver(mem))
	id, _, err := book.Place(context.Background(), orderbookv1.PlaceOrderRequest{
		Trader: "A", Kind: orderbookv1.KindLimit, Side: orderbookv1.Bid, Price: 10, Qty: 100,
	})
	require.NoError(t, err)

	reader := newFakeReader(orderreaderv1.Envelope{
		Type:   orderreaderv1.KindCancel,
		Cancel: &orderreaderv1.CancelPayload{OrderID: id, Trader: "A"},
	})
	publisher := &fakePublisher{}
	store := &fakeSnapshotStore{}

	eng := NewEngine(book, reader, publisher, store, testLogger(t), "index/numeraire")
	require.NoError(t, eng.Start(context.Background()))

	require.Eventually(t, func() bool {
		var status orderbookv1.Status
		eng.Query(func(b orderbookv1.Book) {
			order, _ := b.GetOrder(id)
			status = order.Status
		})
		return status == orderbookv1.StatusCancelled
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, eng.Stop(context.Background()))
}

func TestEngine_RestoresFromSnapshot(t *testing.T) {
	mem := ledger.NewMemory()
	book := orderbook.NewBook(settlement.NewDriver(mem))

	bookSnap := orderbookv1.BookSnapshot{
		NextID: 2,
		Orders: []orderbookv1.Order{
			{ID: 1, Trader: "A", Side: orderbookv1.Bid, Kind: orderbookv1.KindLimit,
				Price: 10, OriginalQuantity: 100, ResidualQuantity: 100, Status: orderbookv1.StatusOpen},
		},
	}
	store := &fakeSnapshotStore{saved: &snapshotv1.Snapshot{OrderOffset: 41, Book: bookSnap}}

	reader := newFakeReader()
	publisher := &fakePublisher{}

	eng := NewEngineWithOptions(book, reader, publisher, store, testLogger(t), "p", DefaultEngineOptions())
	assert.Equal(t, int64(41), eng.GetOrderOffset())

	var bestBid int64
	eng.ctx, eng.cancel = context.WithCancel(context.Background())
	q := query(func(b orderbookv1.Book) {
		bestBid, _ = b.BestBid()
	})
	q(eng.book)
	assert.Equal(t, int64(10), bestBid)
}
