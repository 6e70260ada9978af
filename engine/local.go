package engine

import (
	"context"
	"fmt"

	"wargame/game"
	"wargame/gamemaster"

	"github.com/rs/zerolog/log"
)

type localEngine struct {
	board  *game.Map
	master gamemaster.Engine
	dialog *Dialog
}

func LocalEngine(board *game.Map, master gamemaster.Engine, dialog *Dialog) *localEngine {
	return &localEngine{
		board:  board,
		master: master,
		dialog: dialog,
	}
}

func (e *localEngine) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			err := e.Handle(ev)
			if err != nil {
				log.Warn().Err(err).Str("event", ev.Kind.String()).Msg("event rejected")
			}
			if ev.Reply != nil {
				ev.Reply <- err
			}
		}
	}
}

// Handle runs one event on the calling goroutine.
func (e *localEngine) Handle(ev Event) error {
	switch ev.Kind {
	case SelectEvent:
		if !e.board.Select(ev.PieceID) {
			return fmt.Errorf("unknown piece %s", ev.PieceID)
		}
	case KeyEvent:
		sheet := game.SheetOf(e.board.SelectedPiece())
		if sheet == nil {
			return fmt.Errorf("no sheet selected")
		}
		if !sheet.KeyEvent(ev.Key) {
			return fmt.Errorf("key %s is not bound on %s", ev.Key, sheet.ID())
		}
	case ClickEvent:
		e.board.Click(ev.Point)
	case DialogEvent:
		if e.dialog == nil || !e.dialog.Answer(ev.Value) {
			return fmt.Errorf("no dialog is open")
		}
	case UndoEvent:
		return e.master.Undo()
	case RemoteEvent:
		return e.master.Apply(ev.Change)
	case InspectEvent:
		if ev.Inspect != nil {
			ev.Inspect(e.board)
		}
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
	return nil
}
