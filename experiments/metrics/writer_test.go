package metrics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"wargame/game"
)

func TestWriteJournalCSV(t *testing.T) {
	changes := []game.Change{
		{Log: "Movement", Deltas: []game.Delta{
			{Kind: game.DeltaMove, PieceID: "a1", From: game.Point{X: 0, Y: 0}, To: game.Point{X: 10, Y: 5}},
			{Kind: game.DeltaState, PieceID: "a1", Before: "0;1;10;10", After: "0;0"},
		}},
		{Log: "Firing Resolution: 0.900000 => false"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJournalCSV(&buf, changes))

	require.Equal(t, "seq,log,kind,piece,key,before,after,from_x,from_y,to_x,to_y\n"+
		"1,Movement,move,a1,,,,0,0,10,5\n"+
		"1,Movement,state,a1,,0;1;10;10,0;0,0,0,0,0\n"+
		"2,Firing Resolution: 0.900000 => false,,,,,,,,,\n", buf.String())
}

func TestWriterCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journals")
	w, err := NewWriter(dir)
	require.NoError(t, err)

	path, err := w.WriteJournal("session.csv", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "seq,log,kind,piece,key,before,after,from_x,from_y,to_x,to_y\n", string(data))
}

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()
	c.Start()
	c.Record(game.Change{Log: "Movement"})
	c.Record(game.Change{Log: "Set Waypoint"})
	c.Record(game.Change{Log: "New Contact!"})
	c.Record(game.Change{Log: "Firing Resolution: 0.100000 => true", Deltas: []game.Delta{{Kind: game.DeltaRemove, PieceID: "t1"}}})
	c.Record(game.Change{Log: "Firing Resolution: 0.900000 => false"})
	c.AddUndo()

	got := c.Complete()

	require.Equal(t, 5, got.Changes)
	require.Equal(t, 1, got.Moves)
	require.Equal(t, 1, got.Plots)
	require.Equal(t, 1, got.Contacts)
	require.Equal(t, 2, got.Shots)
	require.Equal(t, 1, got.Hits)
	require.Equal(t, 1, got.Undos)
}
