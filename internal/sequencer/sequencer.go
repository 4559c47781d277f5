// Package sequencer serialises commands per book and feeds them to the
// matching engine. It is the collaborator the core assumes exists: one
// goroutine per instrument consumes a command channel, so exactly one
// in-flight command ever advances a book's current snapshot, while
// distinct books run fully in parallel. Snapshots are published
// through an atomic pointer, so readers never block and never observe
// a torn book.
package sequencer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"github.com/openvenue/matchbook/internal/book"
	"github.com/openvenue/matchbook/internal/domain"
	"github.com/openvenue/matchbook/internal/engine"
	"github.com/openvenue/matchbook/internal/event"
	"github.com/openvenue/matchbook/internal/store"
)

// Sequencer routes commands to per-book goroutines and owns the event
// log, the trade tape and the current snapshot of every book.
type Sequencer struct {
	engine *engine.Engine
	log    zerolog.Logger
	events *store.EventLog
	tape   *store.TradeTape
	buffer int

	t *tomb.Tomb

	mu    sync.RWMutex
	insts map[domain.BookID]*instrument
}

type instrument struct {
	commands chan envelope
	current  atomic.Pointer[book.Books]
}

type envelope struct {
	cmd   engine.Command
	reply chan *engine.Transaction
}

// New creates a sequencer. buffer sizes each book's command channel.
func New(eng *engine.Engine, log zerolog.Logger, events *store.EventLog, tape *store.TradeTape, buffer int) *Sequencer {
	return &Sequencer{
		engine: eng,
		log:    log,
		events: events,
		tape:   tape,
		buffer: buffer,
		t:      &tomb.Tomb{},
		insts:  make(map[domain.BookID]*instrument),
	}
}

// Register creates an empty book for the id and starts its command
// loop. Returns domain.ErrBookAlreadyExists for a duplicate id.
func (s *Sequencer) Register(id domain.BookID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.insts[id]; ok {
		return domain.ErrBookAlreadyExists
	}
	inst := &instrument{
		commands: make(chan envelope, s.buffer),
	}
	inst.current.Store(book.New(id))
	s.insts[id] = inst

	s.t.Go(func() error {
		s.run(id, inst)
		return nil
	})
	s.log.Info().Str("book", string(id)).Msg("book registered")
	return nil
}

// run is one book's command loop. Commands apply strictly in arrival
// order; the snapshot pointer only ever moves forward.
func (s *Sequencer) run(id domain.BookID, inst *instrument) {
	for {
		select {
		case <-s.t.Dying():
			return
		case env := <-inst.commands:
			txn := s.engine.Process(env.cmd, inst.current.Load())

			s.events.Append(id, txn.Events...)
			for _, ev := range txn.Events {
				if trade, ok := ev.(event.Trade); ok {
					s.tape.Record(trade)
				}
			}
			inst.current.Store(txn.Books)

			if rej, ok := txn.Rejected(); ok {
				s.log.Debug().
					Str("book", string(id)).
					Str("reason", string(rej.Reason)).
					Msg("command rejected")
			} else {
				s.log.Debug().
					Str("book", string(id)).
					Int("events", len(txn.Events)).
					Msg("command applied")
			}

			if env.reply != nil {
				env.reply <- txn
			}
		}
	}
}

func (s *Sequencer) instrument(id domain.BookID) (*instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.insts[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return inst, nil
}

// Submit enqueues a command without waiting for its outcome.
func (s *Sequencer) Submit(cmd engine.Command) error {
	inst, err := s.instrument(cmd.BookID())
	if err != nil {
		return err
	}
	select {
	case inst.commands <- envelope{cmd: cmd}:
		return nil
	case <-s.t.Dying():
		return domain.ErrSequencerStopped
	}
}

// Call enqueues a command and waits for its Transaction.
func (s *Sequencer) Call(ctx context.Context, cmd engine.Command) (*engine.Transaction, error) {
	inst, err := s.instrument(cmd.BookID())
	if err != nil {
		return nil, err
	}
	reply := make(chan *engine.Transaction, 1)
	select {
	case inst.commands <- envelope{cmd: cmd, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.t.Dying():
		return nil, domain.ErrSequencerStopped
	}
	select {
	case txn := <-reply:
		return txn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.t.Dying():
		return nil, domain.ErrSequencerStopped
	}
}

// Snapshot returns the book's current snapshot. The value is immutable
// and safe to read concurrently for as long as the caller likes.
func (s *Sequencer) Snapshot(id domain.BookID) (*book.Books, error) {
	inst, err := s.instrument(id)
	if err != nil {
		return nil, err
	}
	return inst.current.Load(), nil
}

// Books lists the registered book ids.
func (s *Sequencer) Books() []domain.BookID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]domain.BookID, 0, len(s.insts))
	for id := range s.insts {
		ids = append(ids, id)
	}
	return ids
}

// Stop shuts down every book loop and waits for them to exit.
func (s *Sequencer) Stop() error {
	s.t.Kill(nil)
	return s.t.Wait()
}
