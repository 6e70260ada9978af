package player

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wargame/communication"
	"wargame/engine"
	"wargame/game"
	"wargame/gamemaster"
	"wargame/meta"
)

func testConfig() meta.Config {
	cfg := meta.Default()
	cfg.Seed = 7
	cfg.Pieces = []meta.PieceConfig{
		{ID: "a1", Name: "Eagle", Side: "Blue", DetectionRange: 5, Waypoints: [][2]int{{100, 0}}},
		{ID: "t1", Side: "Red", HiddenBy: "Blue", X: 103},
		{ID: "x1", Plain: true, X: -50, Y: -50},
	}
	return cfg
}

func TestNewPlayer(t *testing.T) {
	p, err := NewPlayer(testConfig(), nil)
	require.NoError(t, err)

	a1 := p.Sheet("a1")
	require.NotNil(t, a1)
	require.Equal(t, "Eagle", a1.Name())
	require.Equal(t, "5;1;100;0", a1.StateToken())
	require.Equal(t, "Blue", a1.Property(meta.SIDE_PROPERTY))

	t1 := p.Sheet("t1")
	require.NotNil(t, t1)
	require.Equal(t, "t1", t1.Name(), "name defaults to the id")
	require.Equal(t, "Blue", t1.Property(meta.HIDDEN_BY_PROPERTY))
	require.Equal(t, game.Point{X: 103, Y: 0}, t1.Position())

	require.Nil(t, p.Sheet("x1"), "plain pieces carry no sheet")
	require.NotNil(t, p.Board.Piece("x1"))

	t.Run("duplicate id", func(t *testing.T) {
		cfg := testConfig()
		cfg.Pieces = append(cfg.Pieces, meta.PieceConfig{ID: "a1"})
		_, err := NewPlayer(cfg, nil)
		require.Error(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		cfg := testConfig()
		cfg.Pieces = append(cfg.Pieces, meta.PieceConfig{Name: "nobody"})
		_, err := NewPlayer(cfg, nil)
		require.Error(t, err)
	})
}

func TestConfiguredRules(t *testing.T) {
	cfg := testConfig()
	cfg.Movement = 40
	cfg.Keys.Move = "Space"
	p, err := NewPlayer(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, p.Handle(engine.Event{Kind: engine.SelectEvent, PieceID: "a1"}))
	require.Error(t, p.Handle(engine.Event{Kind: engine.KeyEvent, Key: "M"}), "M was rebound")
	require.NoError(t, p.Handle(engine.Event{Kind: engine.KeyEvent, Key: "Space"}))
	require.Equal(t, game.Point{X: 40, Y: 0}, p.Sheet("a1").Position())
	require.Equal(t, 1, p.Metrics.Complete().Moves)
}

func TestPlayAndFollow(t *testing.T) {
	a, b := communication.Loopback()
	leader, err := NewPlayer(testConfig(), a)
	require.NoError(t, err)
	follower, err := NewPlayer(testConfig(), nil)
	require.NoError(t, err)
	updates := follower.Master.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	followDone := make(chan error, 1)
	go func() {
		followDone <- follower.Follow(ctx, b)
	}()

	events := make(chan engine.Event)
	playDone := make(chan error, 1)
	go func() {
		playDone <- leader.Play(ctx, events, a)
	}()

	reply := make(chan error, 1)
	events <- engine.Event{Kind: engine.SelectEvent, PieceID: "a1", Reply: reply}
	require.NoError(t, <-reply)
	events <- engine.Event{Kind: engine.KeyEvent, Key: "M", Reply: reply}
	require.NoError(t, <-reply)

	var last gamemaster.Update
	for i := 0; i < 2; i++ {
		select {
		case last = <-updates:
		case <-time.After(2 * time.Second):
			t.Fatal("follower did not catch up")
		}
	}
	require.Equal(t, "New Contact!", last.Change.Log)
	require.Equal(t, leader.Master.Hash(), last.Hash)

	close(events)
	require.NoError(t, <-playDone)
	cancel()
	require.NoError(t, <-followDone)
}
