package game

import (
	"math"

	"github.com/rs/zerolog/log"
)

// Advance moves the piece one step along its committed waypoints and then runs detection.
func (s *Sheet) Advance() {
	s.AdvanceBy(s.rules.MovementBudget())
}

// AdvanceBy moves the piece up to budget map units along its committed waypoints. Reached
// waypoints are consumed, the rest stay for the next step.
func (s *Sheet) AdvanceBy(budget float64) {
	before := s.StateToken()
	start := s.Position()

	pos, remaining := walk(start, s.state.Waypoints, budget)
	s.state.Waypoints = remaining

	c := Change{Log: "Movement"}
	if board := s.Board(); board != nil {
		board.Place(s, pos)
		c = c.Append(Delta{Kind: DeltaMove, PieceID: s.ID(), From: start, To: pos})
	}
	c = c.Append(stateDelta(s.ID(), before, s.StateToken()))

	log.Debug().Str("piece", s.ID()).Msgf("moved from %v to %v, %d waypoints left", start, pos, len(remaining))
	s.transport.SendAndLog(c)

	s.Detect()
}

// walk follows waypoints from pos for budget map units. It returns the stop position and a
// fresh slice of the waypoints not reached. A leg cut short lands on the floor of the
// interpolated coordinates.
func walk(pos Point, waypoints []Point, budget float64) (Point, []Point) {
	i := 0
	for budget > 0 && i < len(waypoints) {
		next := waypoints[i]
		dist := pos.Distance(next)
		if budget >= dist { // also covers zero-length legs
			budget -= dist
			pos = next
			i++
			continue
		}

		p := budget / dist
		x := float64(pos.X)*(1-p) + float64(next.X)*p
		y := float64(pos.Y)*(1-p) + float64(next.Y)*p
		pos = Point{X: int(math.Floor(x)), Y: int(math.Floor(y))}
		budget = 0
	}

	remaining := make([]Point, len(waypoints)-i)
	copy(remaining, waypoints[i:])
	return pos, remaining
}

// PathLength is the length of the path from start through every waypoint.
func PathLength(start Point, waypoints []Point) float64 {
	total := 0.0
	for _, p := range waypoints {
		total += start.Distance(p)
		start = p
	}
	return total
}
