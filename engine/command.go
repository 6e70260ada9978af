package engine

import (
	"fmt"
	"strconv"
	"strings"

	"wargame/game"
)

// Command is a parsed input line.
type Command struct {
	Event Event
	State string // piece id for "state", the line is a query and Event is unset
	Quit  bool
	Empty bool
}

// ParseLine reads one session line:
//
//	select <id> | key <name> | click <x> <y> | range <n> | state <id> | undo | quit
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return Command{Empty: true}, nil
	}

	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "select":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: select <id>")
		}
		return Command{Event: Event{Kind: SelectEvent, PieceID: args[0]}}, nil
	case "key":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: key <name>")
		}
		return Command{Event: Event{Kind: KeyEvent, Key: args[0]}}, nil
	case "click":
		if len(args) != 2 {
			return Command{}, fmt.Errorf("usage: click <x> <y>")
		}
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("bad x: %w", err)
		}
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return Command{}, fmt.Errorf("bad y: %w", err)
		}
		return Command{Event: Event{Kind: ClickEvent, Point: game.Point{X: x, Y: y}}}, nil
	case "range":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: range <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("bad range: %w", err)
		}
		return Command{Event: Event{Kind: DialogEvent, Value: n}}, nil
	case "state":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: state <id>")
		}
		return Command{State: args[0]}, nil
	case "undo":
		return Command{Event: Event{Kind: UndoEvent}}, nil
	case "quit", "exit":
		return Command{Quit: true}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}
