package gamemaster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wargame/communication"
	"wargame/experiments/metrics"
	"wargame/game"
	"wargame/meta"
)

type fixedRoll float64

func (r fixedRoll) Float64() float64 { return float64(r) }

// scenario is a Blue sheet a1 at the origin, a hidden Red sheet t1 east of it and a plain
// marker x1.
type scenario struct {
	board  *game.Map
	engine *localEngine
	sheet  *game.Sheet
	target *game.Sheet
}

func newScenario(roll float64, options ...Option) scenario {
	m := game.NewMap()
	e := NewLocalEngine(m, options...)

	sheet := game.NewSheet(game.NewCounter("a1", "Aircraft"),
		game.WithTransport(e), game.WithRegistry(m), game.WithInput(m), game.WithRandom(fixedRoll(roll)))
	sheet.SetProperty(meta.SIDE_PROPERTY, "Blue")
	sheet.SetState("5;1;100;0")
	m.AddPiece(sheet, game.Point{})

	target := game.NewSheet(game.NewCounter("t1", "Bandit"), game.WithTransport(e), game.WithRegistry(m), game.WithInput(m))
	target.SetProperty(meta.SIDE_PROPERTY, "Red")
	target.SetProperty(meta.HIDDEN_BY_PROPERTY, "Blue")
	m.AddPiece(target, game.Point{X: 103, Y: 0})

	m.AddPiece(game.NewCounter("x1", "Marker"), game.Point{X: -50, Y: -50})

	return scenario{board: m, engine: e, sheet: sheet, target: target}
}

func TestSendAndLog(t *testing.T) {
	sc := newScenario(0.9)
	updates := sc.engine.Subscribe()
	before := sc.engine.Hash()

	sc.sheet.Advance()

	journal := sc.engine.Journal()
	require.Len(t, journal, 2, "a move into range journals the movement and the contact")
	require.Equal(t, "Movement", journal[0].Log)
	require.Equal(t, "New Contact!", journal[1].Log)

	u := <-updates
	require.Equal(t, 1, u.Seq)
	require.Equal(t, "Movement", u.Change.Log)
	u = <-updates
	require.Equal(t, 2, u.Seq)
	require.Equal(t, sc.engine.Hash(), u.Hash)
	require.NotEqual(t, before, u.Hash)

	t.Run("journal is a copy", func(t *testing.T) {
		journal[0].Log = "changed"
		require.Equal(t, "Movement", sc.engine.Journal()[0].Log)
	})
}

func TestUndo(t *testing.T) {
	t.Run("movement and contact", func(t *testing.T) {
		sc := newScenario(0.9)
		start := sc.engine.Hash()
		sc.sheet.Advance()
		require.Equal(t, "", sc.target.Property(meta.HIDDEN_BY_PROPERTY))

		require.NoError(t, sc.engine.Undo())
		require.Equal(t, "Blue", sc.target.Property(meta.HIDDEN_BY_PROPERTY))
		require.Equal(t, game.Point{X: 100, Y: 0}, sc.sheet.Position())

		require.NoError(t, sc.engine.Undo())
		require.Equal(t, game.Point{}, sc.sheet.Position())
		require.Equal(t, "5;1;100;0", sc.sheet.StateToken())
		require.Equal(t, start, sc.engine.Hash())
		require.Empty(t, sc.engine.Journal())

		require.Error(t, sc.engine.Undo(), "nothing left to undo")
	})

	t.Run("hit restores the target", func(t *testing.T) {
		sc := newScenario(0.1)
		sc.sheet.Perform(game.FireAction)
		sc.board.Click(game.Point{X: 110, Y: 0})
		require.Nil(t, sc.board.Piece("t1"))

		require.NoError(t, sc.engine.Undo())
		require.NotNil(t, sc.board.Piece("t1"))
		require.Equal(t, game.Point{X: 103, Y: 0}, sc.target.Position())
	})

	t.Run("waypoint plan", func(t *testing.T) {
		sc := newScenario(0.9)
		sc.sheet.Perform(game.PlotWaypointAction)
		sc.board.Click(game.Point{X: 0, Y: 40})
		sc.sheet.Perform(game.ConcludeAction)
		require.Equal(t, "5;1;0;40", sc.sheet.StateToken())

		require.NoError(t, sc.engine.Undo())
		require.Equal(t, "5;1;100;0", sc.sheet.StateToken())
	})
}

func TestApply(t *testing.T) {
	local := newScenario(0.9)
	replica := newScenario(0.9)
	require.Equal(t, local.engine.Hash(), replica.engine.Hash())

	local.sheet.Advance()
	require.NotEqual(t, local.engine.Hash(), replica.engine.Hash())

	for _, c := range local.engine.Journal() {
		require.NoError(t, replica.engine.Apply(c))
	}
	require.Equal(t, local.engine.Hash(), replica.engine.Hash())
	require.Equal(t, game.Point{X: 100, Y: 0}, replica.sheet.Position())
	require.Len(t, replica.engine.Journal(), 2)

	t.Run("unknown piece", func(t *testing.T) {
		hash := replica.engine.Hash()
		err := replica.engine.Apply(game.Change{Log: "Movement", Deltas: []game.Delta{
			{Kind: game.DeltaMove, PieceID: "a1", To: game.Point{X: 1, Y: 1}},
			{Kind: game.DeltaMove, PieceID: "zz", To: game.Point{X: 1, Y: 1}},
		}})
		require.Error(t, err)
		require.Equal(t, hash, replica.engine.Hash(), "a rejected change leaves the board alone")
		require.Len(t, replica.engine.Journal(), 2)
	})

	t.Run("state on a plain counter", func(t *testing.T) {
		err := replica.engine.Apply(game.Change{Deltas: []game.Delta{{Kind: game.DeltaState, PieceID: "x1", After: "1;0"}}})
		require.Error(t, err)
	})
}

func TestCollector(t *testing.T) {
	c := metrics.NewCollector()
	sc := newScenario(0.9, WithCollector(c))
	sc.sheet.Advance()
	require.NoError(t, sc.engine.Undo())

	got := c.Complete()
	require.Equal(t, 1, got.Moves)
	require.Equal(t, 1, got.Contacts)
	require.Equal(t, 1, got.Undos)
}

func TestFollow(t *testing.T) {
	a, b := communication.Loopback()
	local := newScenario(0.9, WithCommunicator(a))
	replica := newScenario(0.9)
	updates := replica.engine.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewGameMaster(b, replica.engine).Follow(ctx)
	}()

	local.sheet.Advance()

	var last Update
	for i := 0; i < 2; i++ {
		select {
		case last = <-updates:
		case <-time.After(2 * time.Second):
			t.Fatal("replica did not receive the change")
		}
	}
	require.Equal(t, "New Contact!", last.Change.Log)
	require.Equal(t, local.engine.Hash(), last.Hash)

	cancel()
	require.NoError(t, <-done)

	t.Run("closed communicator ends the loop", func(t *testing.T) {
		require.NoError(t, b.Close())
		require.NoError(t, NewGameMaster(b, replica.engine).Follow(context.Background()))
	})
}
