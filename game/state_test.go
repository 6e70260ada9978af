package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wargame/meta"
)

func TestEncodeState(t *testing.T) {
	t.Run("encoding range and one waypoint", func(t *testing.T) {
		s := State{DetectionRange: 3, Waypoints: []Point{{X: 1, Y: 2}}}

		require.Equal(t, "3;1;1;2", EncodeState(s), "Should write range, count, then coordinates")
		require.True(t, DecodeState("3;1;1;2").Equal(s), "Should decode back to the same state")
	})

	t.Run("encoding the initial state", func(t *testing.T) {
		require.Equal(t, "0;0", EncodeState(State{}), "Should write zero range and zero waypoints")
	})
}

func TestStateRoundTrip(t *testing.T) {
	states := []State{
		{},
		{DetectionRange: 12},
		{DetectionRange: 0, Waypoints: []Point{{X: 0, Y: 0}}},
		{DetectionRange: 250, Waypoints: []Point{{X: -40, Y: 17}, {X: -40, Y: 17}, {X: 3000, Y: -1}}},
	}
	for _, s := range states {
		got := DecodeState(EncodeState(s))
		require.True(t, got.Equal(s), "Round trip of %+v gave %+v", s, got)
		require.Equal(t, s.Hash(), got.Hash(), "Round trip should keep the hash")
	}
}

func TestDecodeStateDefaults(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		got := DecodeState("")
		require.Equal(t, 0, got.DetectionRange)
		require.Empty(t, got.Waypoints)
	})

	t.Run("missing waypoint count", func(t *testing.T) {
		got := DecodeState("7")
		require.Equal(t, 7, got.DetectionRange)
		require.Empty(t, got.Waypoints)
	})

	t.Run("truncated coordinates read as zero", func(t *testing.T) {
		got := DecodeState("5;2;1")
		require.Equal(t, []Point{{X: 1, Y: 0}, {X: 0, Y: 0}}, got.Waypoints)
	})

	t.Run("unreadable fields read as zero", func(t *testing.T) {
		got := DecodeState("x;1;a;3")
		require.Equal(t, 0, got.DetectionRange)
		require.Equal(t, []Point{{X: 0, Y: 3}}, got.Waypoints)
	})

	t.Run("negative range and count", func(t *testing.T) {
		require.Equal(t, 0, DecodeState("-4;0").DetectionRange, "Range should never be negative")
		require.Empty(t, DecodeState("2;-3;1;1").Waypoints, "Negative count should read no waypoints")
	})

	t.Run("huge count over a short token", func(t *testing.T) {
		got := DecodeState("0;999999999;1;2")
		require.Len(t, got.Waypoints, meta.MAX_WAYPOINTS, "Padding should stop at the waypoint bound")
		require.Equal(t, Point{X: 1, Y: 2}, got.Waypoints[0], "Present waypoints should still be read")
		require.Equal(t, Point{}, got.Waypoints[1], "Missing waypoints should read as the origin")
	})

	t.Run("plans longer than the padding bound", func(t *testing.T) {
		s := State{DetectionRange: 9}
		for i := 0; i < meta.MAX_WAYPOINTS+904; i++ {
			s.Waypoints = append(s.Waypoints, Point{X: 1000 + i, Y: -i})
		}

		got := DecodeState(EncodeState(s))
		require.Len(t, got.Waypoints, len(s.Waypoints))
		require.True(t, got.Equal(s), "Should decode back to the same state")
	})
}

func TestTypeToken(t *testing.T) {
	require.Equal(t, "AircraftSheet;", EncodeType())
	require.Equal(t, "", DecodeType(EncodeType()), "Should carry no configuration")
	require.Equal(t, "cfg", DecodeType("AircraftSheet;cfg"), "Should drop only the tag")

	require.True(t, IsType("AircraftSheet;"))
	require.False(t, IsType("AircraftSheetMk2;"), "Tag delimiter should stop longer names matching")
	require.False(t, IsType("mark;Side"))
}

func TestCommittedPlanReplicates(t *testing.T) {
	m := NewMap()
	log := &changeLog{}
	a := newTestSheet("a1", Point{}, m, log)

	require.True(t, a.BeginPlot())
	for i := 0; i < 5000; i++ {
		a.AppendTempWaypoint(Point{X: i, Y: 2 * i})
	}
	a.CommitPlot()

	require.Len(t, log.changes, 1)
	replica := NewSheet(NewCounter("a1", "a1"))
	replica.SetState(log.changes[0].Deltas[0].After)
	require.True(t, replica.State().Equal(a.State()), "Replica should hold the whole committed plan")
	require.Len(t, replica.State().Waypoints, 5000)
}

func TestNewFromType(t *testing.T) {
	t.Run("building a sheet for its own type", func(t *testing.T) {
		s, ok := NewFromType("AircraftSheet;", NewCounter("a1", "Falcon"))

		require.True(t, ok)
		require.Equal(t, "a1", s.ID(), "Should wrap the given piece")
		require.Equal(t, "0;0", s.StateToken(), "Should start with the initial state")
		require.Equal(t, ModeNone, s.Mode())
	})

	t.Run("ignoring a configuration payload", func(t *testing.T) {
		s, ok := NewFromType("AircraftSheet;cfg", NewCounter("a1", "Falcon"))

		require.True(t, ok)
		require.Equal(t, "AircraftSheet;", s.TypeToken(), "Should keep writing an empty payload")
		require.Equal(t, "0;0", s.StateToken(), "Payload should not touch the state")
	})

	t.Run("leaving other types to the host", func(t *testing.T) {
		s, ok := NewFromType("mark;Side", NewCounter("a1", "Falcon"))

		require.False(t, ok)
		require.Nil(t, s)
	})
}

func TestSheetSetState(t *testing.T) {
	s := NewSheet(NewCounter("a1", "Falcon"))
	s.SetState("4;2;1;1;2;2")

	require.Equal(t, 4, s.State().DetectionRange)
	require.Equal(t, []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, s.State().Waypoints)
	require.Equal(t, "4;2;1;1;2;2", s.StateToken())

	copied := s.State()
	copied.Waypoints[0] = Point{X: 9, Y: 9}
	require.Equal(t, Point{X: 1, Y: 1}, s.State().Waypoints[0], "State should return a copy")
}
