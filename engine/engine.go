package engine

import (
	"context"

	"wargame/game"
)

type EventKind int

const (
	SelectEvent EventKind = iota
	KeyEvent
	ClickEvent
	DialogEvent
	UndoEvent
	RemoteEvent
	InspectEvent
)

func (k EventKind) String() string {
	switch k {
	case SelectEvent:
		return "select"
	case KeyEvent:
		return "key"
	case ClickEvent:
		return "click"
	case DialogEvent:
		return "dialog"
	case UndoEvent:
		return "undo"
	case RemoteEvent:
		return "remote"
	case InspectEvent:
		return "inspect"
	default:
		return "unknown"
	}
}

// Event is one input for the loop. Only the fields of its kind are read.
type Event struct {
	Kind    EventKind
	PieceID string      // SelectEvent
	Key     string      // KeyEvent
	Point   game.Point  // ClickEvent
	Value   int         // DialogEvent
	Change  game.Change // RemoteEvent
	Inspect func(board *game.Map)
	Reply   chan<- error
}

type Engine interface {
	// Run handles events one at a time until ctx is done or events is closed
	Run(ctx context.Context, events <-chan Event) error
}
