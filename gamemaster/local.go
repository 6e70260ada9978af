package gamemaster

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sync"

	"wargame/communication"
	"wargame/experiments/metrics"
	"wargame/game"
	"wargame/meta"

	"github.com/rs/zerolog/log"
)

// Update is a journaled change as seen by subscribers.
type Update struct {
	Seq    int
	Change game.Change
	Hash   game.StateHash
}

// Engine is the host side of the change transport. Sheets send their changes through it,
// replicas apply changes received from elsewhere.
type Engine interface {
	game.Transport
	Apply(c game.Change) error
	Undo() error
	Journal() []game.Change
	Subscribe() <-chan Update
	Hash() game.StateHash
	Close()
}

type Option func(e *localEngine)

func WithCommunicator(c communication.Communicator) Option {
	return func(e *localEngine) {
		e.comm = c
	}
}

func WithCollector(c metrics.Collector) Option {
	return func(e *localEngine) {
		e.metrics = c
	}
}

const subscriberBuffer = 64

// localEngine must only touch the board from the goroutine that owns it. The mutex guards
// the journal and the subscriber list.
type localEngine struct {
	board       *game.Map
	comm        communication.Communicator
	metrics     metrics.Collector
	mu          sync.Mutex
	journal     []game.Change
	subscribers []chan Update
	seq         int
	closed      bool
}

func NewLocalEngine(board *game.Map, options ...Option) *localEngine {
	e := &localEngine{
		board:   board,
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// SendAndLog journals a change the sheet has already executed and relays it.
func (e *localEngine) SendAndLog(c game.Change) {
	log.Info().Str("change", c.Log).Int("deltas", len(c.Deltas)).Msg("local change")
	e.record(c, true)
	e.relay(c)
}

// Apply executes a change received from another participant.
func (e *localEngine) Apply(c game.Change) error {
	if err := e.validate(c); err != nil {
		return fmt.Errorf("cannot apply %q: %w", c.Log, err)
	}
	e.execute(c)
	log.Info().Str("change", c.Log).Int("deltas", len(c.Deltas)).Msg("remote change")
	e.record(c, true)
	return nil
}

// Undo reverts the last journaled change and relays the inverse.
func (e *localEngine) Undo() error {
	e.mu.Lock()
	if len(e.journal) == 0 {
		e.mu.Unlock()
		return fmt.Errorf("nothing to undo")
	}
	last := e.journal[len(e.journal)-1]
	e.mu.Unlock()

	inv := last.Inverse()
	if err := e.validate(inv); err != nil {
		return fmt.Errorf("cannot undo %q: %w", last.Log, err)
	}
	e.execute(inv)

	e.mu.Lock()
	e.journal = e.journal[:len(e.journal)-1]
	e.mu.Unlock()

	log.Info().Str("change", inv.Log).Msg("undo")
	e.metrics.AddUndo()
	e.record(inv, false)
	e.relay(inv)
	return nil
}

func (e *localEngine) Journal() []game.Change {
	e.mu.Lock()
	defer e.mu.Unlock()
	journalCopy := make([]game.Change, len(e.journal))
	copy(journalCopy, e.journal)
	return journalCopy
}

func (e *localEngine) Subscribe() <-chan Update {
	e.mu.Lock()
	defer e.mu.Unlock()
	ch := make(chan Update, subscriberBuffer)
	if e.closed {
		close(ch)
		return ch
	}
	e.subscribers = append(e.subscribers, ch)
	return ch
}

func (e *localEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for _, ch := range e.subscribers {
		close(ch)
	}
	e.subscribers = nil
}

// Hash summarizes the board so replicas can check they converged.
func (e *localEngine) Hash() game.StateHash {
	h := fnv.New64a()
	buf := make([]byte, 8)
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
		h.Write(buf)
	}
	writeString := func(s string) {
		writeInt(len(s))
		h.Write([]byte(s))
	}
	for _, p := range e.board.Pieces() {
		writeString(p.ID())
		writeInt(p.Position().X)
		writeInt(p.Position().Y)
		writeString(p.Property(meta.SIDE_PROPERTY))
		writeString(p.Property(meta.HIDDEN_BY_PROPERTY))
		if s := game.SheetOf(p); s != nil {
			writeString(s.StateToken())
		}
	}
	return game.StateHash(h.Sum64())
}

func (e *localEngine) record(c game.Change, journal bool) {
	e.metrics.Record(c)
	hash := e.Hash()

	e.mu.Lock()
	defer e.mu.Unlock()
	if journal {
		e.journal = append(e.journal, c)
	}
	e.seq++
	u := Update{Seq: e.seq, Change: c, Hash: hash}
	for _, ch := range e.subscribers {
		select {
		case ch <- u:
		default:
			log.Warn().Int("seq", u.Seq).Msg("subscriber is full, dropping update")
		}
	}
}

func (e *localEngine) relay(c game.Change) {
	if e.comm == nil {
		return
	}
	if err := e.comm.SendChange(c); err != nil {
		log.Error().Err(err).Str("change", c.Log).Msg("failed to relay change")
	}
}

// validate checks every delta names a piece the board knows before anything is executed.
func (e *localEngine) validate(c game.Change) error {
	for _, d := range c.Deltas {
		switch d.Kind {
		case game.DeltaRestore:
			if !e.board.IsRemoved(d.PieceID) {
				return fmt.Errorf("piece %s was not removed", d.PieceID)
			}
		case game.DeltaState:
			if game.SheetOf(e.board.Piece(d.PieceID)) == nil {
				return fmt.Errorf("piece %s has no sheet", d.PieceID)
			}
		case game.DeltaMove, game.DeltaProperty, game.DeltaRemove:
			if e.board.Piece(d.PieceID) == nil {
				return fmt.Errorf("unknown piece %s", d.PieceID)
			}
		default:
			return fmt.Errorf("unknown delta kind %d", d.Kind)
		}
	}
	return nil
}

func (e *localEngine) execute(c game.Change) {
	for _, d := range c.Deltas {
		switch d.Kind {
		case game.DeltaState:
			game.SheetOf(e.board.Piece(d.PieceID)).SetState(d.After)
		case game.DeltaMove:
			e.board.Place(e.board.Piece(d.PieceID), d.To)
		case game.DeltaProperty:
			e.board.Piece(d.PieceID).SetProperty(d.Key, d.After)
		case game.DeltaRemove:
			e.board.Remove(e.board.Piece(d.PieceID))
		case game.DeltaRestore:
			e.board.Restore(d.PieceID, d.To)
		}
	}
	e.board.Repaint()
}
