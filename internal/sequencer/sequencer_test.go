package sequencer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/engine"
	"github.com/openvenue/matchbook/internal/store"
)

func newTestSequencer(t *testing.T) (*Sequencer, *store.EventLog, *store.TradeTape) {
	t.Helper()
	events := store.NewEventLog()
	tape := store.NewTradeTape(100)
	seq := New(engine.New(engine.DefaultRules()), zerolog.Nop(), events, tape, 16)
	t.Cleanup(func() { _ = seq.Stop() })
	return seq, events, tape
}

func orderCmd(c domain.Client, book domain.BookID, side domain.Side, price domain.Price, size int64, seq int) engine.PlaceOrderCommand {
	return engine.PlaceOrderCommand{
		RequestID:   domain.ClientRequestID{Current: fmt.Sprintf("req-%d", seq)},
		Client:      c,
		Book:        book,
		Type:        domain.EntryTypeLimit,
		Side:        side,
		Size:        size,
		Price:       price,
		TimeInForce: domain.GoodTillCancel,
		SubmittedAt: time.Now(),
	}
}

var (
	alice = domain.Client{FirmID: "firm-a", FirmClientID: "alice"}
	bob   = domain.Client{FirmID: "firm-b", FirmClientID: "bob"}
)

func TestSequencer_RegisterDuplicate(t *testing.T) {
	seq, _, _ := newTestSequencer(t)

	require.NoError(t, seq.Register("XBT-EUR"))
	assert.ErrorIs(t, seq.Register("XBT-EUR"), domain.ErrBookAlreadyExists)
}

func TestSequencer_CallAppliesCommand(t *testing.T) {
	seq, events, _ := newTestSequencer(t)
	require.NoError(t, seq.Register("XBT-EUR"))

	txn, err := seq.Call(context.Background(), orderCmd(alice, "XBT-EUR", domain.SideBuy, 100, 10, 1))
	require.NoError(t, err)

	_, rejected := txn.Rejected()
	assert.False(t, rejected)

	snapshot, err := seq.Snapshot("XBT-EUR")
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Len(domain.SideBuy))
	assert.Equal(t, len(txn.Events), events.Len("XBT-EUR"))
}

func TestSequencer_UnknownBook(t *testing.T) {
	seq, _, _ := newTestSequencer(t)

	_, err := seq.Call(context.Background(), orderCmd(alice, "NOPE", domain.SideBuy, 100, 10, 1))
	assert.ErrorIs(t, err, domain.ErrBookNotFound)

	_, err = seq.Snapshot("NOPE")
	assert.ErrorIs(t, err, domain.ErrBookNotFound)

	assert.ErrorIs(t, seq.Submit(orderCmd(alice, "NOPE", domain.SideBuy, 100, 10, 1)), domain.ErrBookNotFound)
}

func TestSequencer_TradesReachLogAndTape(t *testing.T) {
	seq, events, tape := newTestSequencer(t)
	require.NoError(t, seq.Register("XBT-EUR"))

	_, err := seq.Call(context.Background(), orderCmd(alice, "XBT-EUR", domain.SideSell, 100, 5, 1))
	require.NoError(t, err)
	txn, err := seq.Call(context.Background(), orderCmd(bob, "XBT-EUR", domain.SideBuy, 100, 5, 2))
	require.NoError(t, err)

	trades := txn.Trades()
	require.Len(t, trades, 1)

	prints := tape.Recent("XBT-EUR", 10)
	require.Len(t, prints, 1)
	assert.Equal(t, trades[0].TradeID, prints[0].TradeID)
	assert.Equal(t, domain.Price(100), prints[0].Price)

	// Two commands, all their events logged in order.
	logged := events.All("XBT-EUR")
	for i, ev := range logged {
		assert.Equal(t, domain.EventID(i+1), ev.EventID())
	}
}

func TestSequencer_CommandsSerialisePerBook(t *testing.T) {
	seq, _, _ := newTestSequencer(t)
	require.NoError(t, seq.Register("XBT-EUR"))

	// Fire concurrent non-crossing orders at one book. Serialisation
	// means all of them land and event ids stay gapless.
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := seq.Call(context.Background(),
				orderCmd(alice, "XBT-EUR", domain.SideBuy, domain.Price(90-i%5), 1, i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snapshot, err := seq.Snapshot("XBT-EUR")
	require.NoError(t, err)
	assert.Equal(t, n, snapshot.Len(domain.SideBuy))
	// Each order produced EntryAdded plus OrderPlaced.
	assert.Equal(t, domain.EventID(2*n), snapshot.LastEventID())
}

func TestSequencer_BooksRunIndependently(t *testing.T) {
	seq, _, _ := newTestSequencer(t)
	require.NoError(t, seq.Register("XBT-EUR"))
	require.NoError(t, seq.Register("ETH-EUR"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			book := domain.BookID("XBT-EUR")
			if i%2 == 1 {
				book = "ETH-EUR"
			}
			_, err := seq.Call(context.Background(),
				orderCmd(alice, book, domain.SideSell, 200, 1, i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for _, id := range []domain.BookID{"XBT-EUR", "ETH-EUR"} {
		snapshot, err := seq.Snapshot(id)
		require.NoError(t, err)
		assert.Equal(t, 10, snapshot.Len(domain.SideSell), "book %s", id)
	}

	ids := seq.Books()
	assert.Len(t, ids, 2)
}

func TestSequencer_StoppedSequencerRefusesCommands(t *testing.T) {
	events := store.NewEventLog()
	tape := store.NewTradeTape(100)
	seq := New(engine.New(engine.DefaultRules()), zerolog.Nop(), events, tape, 16)
	require.NoError(t, seq.Register("XBT-EUR"))
	require.NoError(t, seq.Stop())

	_, err := seq.Call(context.Background(), orderCmd(alice, "XBT-EUR", domain.SideBuy, 100, 1, 1))
	assert.ErrorIs(t, err, domain.ErrSequencerStopped)
}
