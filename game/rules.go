package game

type Rules interface {
	// MovementBudget is the map distance covered by one advance.
	MovementBudget() float64
	// IsHit resolves a firing roll drawn from [0,1).
	IsHit(roll float64) bool
}
