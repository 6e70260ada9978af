package game

// ActionType represents a key-triggered sheet command.
type ActionType int

const (
	OpenParametersAction ActionType = iota
	FireAction
	PlotWaypointAction
	ConcludeAction
	AdvanceAction
)

func (a ActionType) String() string {
	switch a {
	case OpenParametersAction:
		return "open"
	case FireAction:
		return "fire"
	case PlotWaypointAction:
		return "waypoint"
	case ConcludeAction:
		return "conclude"
	case AdvanceAction:
		return "move"
	default:
		return "unknown"
	}
}

// KeyCommand is a named command as shown in the piece's context menu.
type KeyCommand struct {
	Name   string
	Action ActionType
	Key    string
}

// Mode is the pending mouse mode of a sheet. At most one is active.
type Mode int

const (
	ModeNone Mode = iota
	ModeFiring
	ModeWaypointPlotting
)

func (m Mode) String() string {
	switch m {
	case ModeFiring:
		return "firing"
	case ModeWaypointPlotting:
		return "waypoint-plotting"
	default:
		return "none"
	}
}
