package game

import "wargame/meta"

type StandardRules struct {
	Movement     float64
	HitThreshold float64
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		Movement:     meta.MOVEMENT_PER_STEP,
		HitThreshold: meta.HIT_THRESHOLD,
	}
}

func (sr *StandardRules) MovementBudget() float64 {
	return sr.Movement
}

func (sr *StandardRules) IsHit(roll float64) bool {
	return roll <= sr.HitThreshold
}
