package player

import (
	"context"
	"fmt"
	"time"

	"wargame/communication"
	"wargame/engine"
	"wargame/experiments/metrics"
	"wargame/game"
	"wargame/gamemaster"
	"wargame/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Player is one participant: a board built from the scenario, the sheets on it and the
// transport they send through.
type Player struct {
	Board   *game.Map
	Master  gamemaster.Engine
	Dialog  *engine.Dialog
	Metrics metrics.Collector
	loop    eventLoop
}

type eventLoop interface {
	engine.Engine
	Handle(ev engine.Event) error
}

// NewPlayer builds the scenario of cfg. comm may be nil for a session without a relay.
func NewPlayer(cfg meta.Config, comm communication.Communicator) (*Player, error) {
	board := game.NewMap()
	collector := metrics.NewCollector()
	options := []gamemaster.Option{gamemaster.WithCollector(collector)}
	if comm != nil {
		options = append(options, gamemaster.WithCommunicator(comm))
	}
	master := gamemaster.NewLocalEngine(board, options...)
	dialog := &engine.Dialog{}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))
	rules := &game.StandardRules{Movement: cfg.Movement, HitThreshold: cfg.HitThreshold}
	keys := game.KeysFromConfig(cfg.Keys)

	for _, pc := range cfg.Pieces {
		if pc.ID == "" {
			return nil, fmt.Errorf("scenario piece without id")
		}
		if board.Piece(pc.ID) != nil {
			return nil, fmt.Errorf("duplicate piece id %s", pc.ID)
		}
		name := pc.Name
		if name == "" {
			name = pc.ID
		}

		var piece game.Piece = game.NewCounter(pc.ID, name)
		if !pc.Plain {
			sheet := game.NewSheet(piece,
				game.WithRules(rules),
				game.WithRandom(rng),
				game.WithTransport(master),
				game.WithRegistry(board),
				game.WithInput(board),
				game.WithDialog(dialog),
				game.WithKeys(keys),
			)
			sheet.SetState(game.EncodeState(stateOf(pc)))
			piece = sheet
		}
		piece.SetProperty(meta.SIDE_PROPERTY, pc.Side)
		piece.SetProperty(meta.HIDDEN_BY_PROPERTY, pc.HiddenBy)
		board.AddPiece(piece, game.Point{X: pc.X, Y: pc.Y})
	}
	log.Info().Int("pieces", len(cfg.Pieces)).Msg("scenario ready")

	return &Player{
		Board:   board,
		Master:  master,
		Dialog:  dialog,
		Metrics: collector,
		loop:    engine.LocalEngine(board, master, dialog),
	}, nil
}

func stateOf(pc meta.PieceConfig) game.State {
	s := game.State{DetectionRange: pc.DetectionRange}
	for _, wp := range pc.Waypoints {
		s.Waypoints = append(s.Waypoints, game.Point{X: wp[0], Y: wp[1]})
	}
	return s
}

// Play runs the event loop. Changes arriving on comm are fed into the same loop so the
// board is only touched from one goroutine.
func (p *Player) Play(ctx context.Context, events <-chan engine.Event, comm communication.Communicator) error {
	p.Metrics.Start()
	if comm == nil {
		return p.loop.Run(ctx, events)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	merged := make(chan engine.Event)
	go func() {
		for {
			c, err := comm.ReceiveChange(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Msg("relay stopped")
				}
				return
			}
			select {
			case merged <- engine.Event{Kind: engine.RemoteEvent, Change: c}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		defer cancel()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case merged <- ev:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return p.loop.Run(ctx, merged)
}

// Follow mirrors the changes arriving on comm until it closes or ctx ends.
func (p *Player) Follow(ctx context.Context, comm communication.Communicator) error {
	p.Metrics.Start()
	return gamemaster.NewGameMaster(comm, p.Master).Follow(ctx)
}

// Handle runs a single event on the calling goroutine.
func (p *Player) Handle(ev engine.Event) error {
	return p.loop.Handle(ev)
}

// Sheet returns the sheet of the piece with id, or nil.
func (p *Player) Sheet(id string) *game.Sheet {
	return game.SheetOf(p.Board.Piece(id))
}
