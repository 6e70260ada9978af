package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// KeyEvent runs the command bound to key. It reports whether the key belongs to this sheet.
func (s *Sheet) KeyEvent(key string) bool {
	for _, kc := range s.keys {
		if kc.Key == key {
			s.Perform(kc.Action)
			return true
		}
	}
	return false
}

// Perform runs one sheet command. A mode command while another mode is pending is ignored.
func (s *Sheet) Perform(action ActionType) {
	switch action {
	case OpenParametersAction:
		s.OpenParameters()
	case FireAction:
		if s.mode == ModeNone { // only one queued target selection
			s.mode = ModeFiring
			s.input.Capture(s)
		}
	case PlotWaypointAction:
		if s.BeginPlot() {
			s.input.Capture(s)
		}
	case ConcludeAction:
		s.Conclude()
	case AdvanceAction:
		s.Advance()
	default:
		log.Warn().Msgf("unknown sheet action %d", action)
	}
}

// Conclude cancels a pending fire or commits a pending plot. Without a pending mode it does nothing.
func (s *Sheet) Conclude() {
	switch s.mode {
	case ModeFiring:
		s.leaveMode()
	case ModeWaypointPlotting:
		s.CommitPlot()
	}
}

// Click handles a mouse click in map coordinates while this sheet holds the input capture.
func (s *Sheet) Click(p Point) {
	switch s.mode {
	case ModeFiring:
		s.resolveFire(p)
	case ModeWaypointPlotting:
		s.AppendTempWaypoint(p)
		if board := s.Board(); board != nil {
			board.Repaint()
		}
	}
}

// resolveFire always ends the firing mode, whether or not a piece was under the cursor.
func (s *Sheet) resolveFire(p Point) {
	s.leaveMode()

	board := s.Board()
	if board == nil {
		return
	}
	target := board.PieceAt(p)
	if target == nil {
		return
	}

	roll := s.rand.Float64()
	hit := s.rules.IsHit(roll)

	c := Change{Log: fmt.Sprintf("Firing Resolution: %f => %t", roll, hit)}
	if hit {
		at := target.Position()
		board.Remove(target)
		c = c.Append(Delta{Kind: DeltaRemove, PieceID: target.ID(), From: at})
	}
	log.Info().Str("piece", s.ID()).Str("target", target.ID()).Float64("roll", roll).Bool("hit", hit).Msg("fired")
	s.transport.SendAndLog(c)
}

// OpenParameters opens the detection range dialog. Closing it with a different value sends
// one change.
func (s *Sheet) OpenParameters() {
	s.dialog.Open(s.Name(), s.state.DetectionRange, func(value int) {
		before := s.StateToken()
		s.state.DetectionRange = max(value, 0)
		after := s.StateToken()
		if before == after {
			return
		}

		s.transport.SendAndLog(Change{Log: "Change Piece"}.Append(stateDelta(s.ID(), before, after)))
		if board := s.Board(); board != nil {
			board.Repaint() // ring size changed
		}
	})
}
