// meta/meta.go
package meta

// MOVEMENT_PER_STEP is the map distance a piece covers on one "Move a step" command.
const MOVEMENT_PER_STEP = 100.0

// HIT_THRESHOLD is the highest roll in [0,1) that still counts as a hit.
const HIT_THRESHOLD = 0.5

// MAX_WAYPOINTS bounds the origin padding added when a state token declares more waypoints
// than it carries.
const MAX_WAYPOINTS = 4096

// SIDE_PROPERTY is the piece property holding the owning side, usually set by a marker.
const SIDE_PROPERTY = "Side"

// HIDDEN_BY_PROPERTY is the piece property set while a piece is hidden from the other sides.
const HIDDEN_BY_PROPERTY = "hiddenBy"
