package game

import "github.com/rs/zerolog/log"

// BeginPlot starts a waypoint plotting session with an empty temp plan. It does nothing and
// returns false while another mode is pending.
func (s *Sheet) BeginPlot() bool {
	if s.mode != ModeNone {
		return false
	}
	s.temp = nil
	s.mode = ModeWaypointPlotting
	return true
}

// AppendTempWaypoint adds p to the temp plan. Duplicates are kept.
func (s *Sheet) AppendTempWaypoint(p Point) {
	if s.mode != ModeWaypointPlotting {
		return
	}
	s.temp = append(s.temp, p)
}

// CommitPlot replaces the committed waypoints with the temp plan in one replicated change.
func (s *Sheet) CommitPlot() {
	if s.mode != ModeWaypointPlotting {
		return
	}
	before := s.StateToken()

	s.state.Waypoints = make([]Point, len(s.temp))
	copy(s.state.Waypoints, s.temp)
	s.leaveMode()

	log.Debug().Str("piece", s.ID()).Int("waypoints", len(s.state.Waypoints)).Msg("waypoints committed")
	s.transport.SendAndLog(Change{Log: "Set Waypoint"}.Append(stateDelta(s.ID(), before, s.StateToken())))
}

// CancelPlot drops the temp plan. The committed waypoints are untouched and nothing is sent.
func (s *Sheet) CancelPlot() {
	if s.mode != ModeWaypointPlotting {
		return
	}
	s.leaveMode()
}

func (s *Sheet) leaveMode() {
	s.input.Release(s)
	s.temp = nil
	s.mode = ModeNone
}
