package game

import "math"

// Collaborators a sheet needs from its host. Everything here is owned by the host and
// injected into the sheet; the sheet never reaches for global state.

type Point struct {
	X, Y int
}

func (p Point) Distance(q Point) float64 {
	return math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Piece is the decorated inner piece. Sheet implements it as well, so sheets can be wrapped again.
type Piece interface {
	ID() string
	Name() string
	Position() Point
	Board() Board // nil while the piece is off-map
	BoundingBox() Rect
	Shape() Rect
	Selected() bool
	Property(key string) string // "" means unset
	SetProperty(key, value string)
	Draw(s Surface, x, y int, zoom float64)
}

// Board is the map a piece lives on.
type Board interface {
	PieceAt(p Point) Piece
	Place(piece Piece, p Point)
	Remove(piece Piece)
	Repaint()
	DrawingPoint(p Point, zoom float64) Point
	DrawingDistance(d int, zoom float64) int
}

// Surface receives overlay drawing operations.
type Surface interface {
	DrawLabel(x, y int, text string)
	DrawCircle(cx, cy, r int)
	DrawPath(style PathStyle, pts []Point)
}

type PathStyle int

const (
	CommittedPath PathStyle = iota
	TempPath
)

// Registry lists every sheet known to the game, the detection scan reads it.
type Registry interface {
	Sheets() []*Sheet
}

// Transport applies a change atomically, logs it and propagates it to all participants.
type Transport interface {
	SendAndLog(c Change)
}

// MouseTarget receives clicks while it holds the input capture.
type MouseTarget interface {
	Click(p Point)
}

// InputRouter hands the mouse to a target and takes it back.
type InputRouter interface {
	Capture(t MouseTarget)
	Release(t MouseTarget)
}

// ParameterDialog edits the detection range; onClose runs with the value the user left in it.
type ParameterDialog interface {
	Open(title string, value int, onClose func(value int))
}

type RandomSource interface {
	Float64() float64
}
