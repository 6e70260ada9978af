package game

import (
	"github.com/rs/zerolog/log"

	"wargame/meta"
)

// Detect reveals every hidden sheet of another side within the detection range of this
// piece. A piece without a side detects nothing. Each reveal is its own change.
func (s *Sheet) Detect() {
	mySide := s.Property(meta.SIDE_PROPERTY)
	if mySide == "" {
		return
	}
	myPos := s.Position()
	detectionRange := float64(s.state.DetectionRange)

	for _, target := range s.registry.Sheets() {
		if target == nil || target == s || target.ID() == s.ID() {
			continue
		}
		targetSide := target.Property(meta.SIDE_PROPERTY)
		if targetSide == "" || targetSide == mySide {
			continue
		}
		if myPos.Distance(target.Position()) > detectionRange {
			continue
		}
		hiddenBy := target.Property(meta.HIDDEN_BY_PROPERTY)
		if hiddenBy == "" {
			continue
		}

		target.SetProperty(meta.HIDDEN_BY_PROPERTY, "")
		log.Info().Str("piece", s.ID()).Str("contact", target.ID()).Msg("new contact")
		s.transport.SendAndLog(Change{Log: "New Contact!"}.Append(Delta{
			Kind:    DeltaProperty,
			PieceID: target.ID(),
			Key:     meta.HIDDEN_BY_PROPERTY,
			Before:  hiddenBy,
		}))
	}
}
