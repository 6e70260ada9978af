package game

import (
	"wargame/utils"
)

// Map is an in-memory board. It is the host used by the command line and the tests, and the
// replica board of a follower.
type Map struct {
	order    []string         // stacking order, bottom first
	pieces   map[string]Piece // outermost piece by ID
	removed  map[string]Piece // pieces taken off by fire, kept for undo
	selected string
	captures []MouseTarget // capture stack, top last
	scale    float64       // drawing units per map unit
	repaints int
}

// NewMap creates and returns a new Map instance.
func NewMap() *Map {
	return &Map{
		pieces:  make(map[string]Piece),
		removed: make(map[string]Piece),
		scale:   1,
	}
}

// AddPiece puts a piece on the map. The innermost piece must be a *Counter.
func (m *Map) AddPiece(p Piece, at Point) {
	if _, ok := m.pieces[p.ID()]; !ok {
		m.order = append(m.order, p.ID())
	}
	m.pieces[p.ID()] = p
	delete(m.removed, p.ID())
	m.setPosition(p, at, m)
}

func (m *Map) Piece(id string) Piece {
	return m.pieces[id]
}

// Pieces returns the pieces in stacking order.
func (m *Map) Pieces() []Piece {
	out := make([]Piece, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.pieces[id])
	}
	return out
}

// Sheets implements Registry.
func (m *Map) Sheets() []*Sheet {
	var out []*Sheet
	for _, id := range m.order {
		if s := SheetOf(m.pieces[id]); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// PieceAt returns the topmost piece whose bounding box holds p.
func (m *Map) PieceAt(p Point) Piece {
	for i := len(m.order) - 1; i >= 0; i-- {
		piece := m.pieces[m.order[i]]
		if piece.BoundingBox().Contains(p) {
			return piece
		}
	}
	return nil
}

func (m *Map) Place(piece Piece, p Point) {
	if _, ok := m.pieces[piece.ID()]; !ok {
		return
	}
	m.setPosition(piece, p, m)
}

func (m *Map) Remove(piece Piece) {
	id := piece.ID()
	i := utils.FindIndex(m.order, id)
	if i < 0 {
		return
	}
	m.removed[id] = m.pieces[id]
	m.order = utils.RemoveAt(m.order, i)
	delete(m.pieces, id)
	if m.selected == id {
		m.selected = ""
	}
	m.setPosition(piece, piece.Position(), nil)
}

// Restore puts a piece removed earlier back at p. It reports false for unknown pieces.
func (m *Map) Restore(id string, p Point) bool {
	piece, ok := m.removed[id]
	if !ok {
		return false
	}
	m.AddPiece(piece, p)
	return true
}

func (m *Map) IsRemoved(id string) bool {
	_, ok := m.removed[id]
	return ok
}

func (m *Map) Repaint()      { m.repaints++ }
func (m *Map) Repaints() int { return m.repaints }

func (m *Map) SetScale(scale float64) {
	if scale > 0 {
		m.scale = scale
	}
}

func (m *Map) DrawingPoint(p Point, zoom float64) Point {
	f := m.scale * zoom
	return Point{X: int(float64(p.X) * f), Y: int(float64(p.Y) * f)}
}

func (m *Map) DrawingDistance(d int, zoom float64) int {
	return int(float64(d) * m.scale * zoom)
}

// Draw draws every piece at its drawing position.
func (m *Map) Draw(s Surface, zoom float64) {
	for _, piece := range m.Pieces() {
		at := m.DrawingPoint(piece.Position(), zoom)
		piece.Draw(s, at.X, at.Y, zoom)
	}
}

func (m *Map) Select(id string) bool {
	if _, ok := m.pieces[id]; !ok {
		return false
	}
	m.selected = id
	return true
}

func (m *Map) SelectedPiece() Piece {
	return m.pieces[m.selected]
}

// Capture implements InputRouter. The latest target receives clicks until it releases, then
// the input goes back to the target below it.
func (m *Map) Capture(t MouseTarget) {
	m.dropCapture(t)
	m.captures = append(m.captures, t)
}

func (m *Map) Release(t MouseTarget) {
	m.dropCapture(t)
}

func (m *Map) dropCapture(t MouseTarget) {
	if i := utils.FindIndex(m.captures, t); i >= 0 {
		m.captures = utils.RemoveAt(m.captures, i)
	}
}

// Captured returns the target receiving clicks, or nil.
func (m *Map) Captured() MouseTarget {
	if len(m.captures) == 0 {
		return nil
	}
	return m.captures[len(m.captures)-1]
}

// Click routes a click to the capturing target, or selects the piece under it.
func (m *Map) Click(p Point) {
	if target := m.Captured(); target != nil {
		target.Click(p)
		return
	}
	if piece := m.PieceAt(p); piece != nil {
		m.selected = piece.ID()
	} else {
		m.selected = ""
	}
}

func (m *Map) setPosition(p Piece, at Point, board *Map) {
	if c, ok := Innermost(p).(*Counter); ok {
		c.pos = at
		c.board = board
	}
}

// Innermost unwraps decorators down to the base piece.
func Innermost(p Piece) Piece {
	for {
		d, ok := p.(interface{ Inner() Piece })
		if !ok {
			return p
		}
		p = d.Inner()
	}
}

// SheetOf finds the sheet in a decorator chain, nil if there is none.
func SheetOf(p Piece) *Sheet {
	for p != nil {
		if s, ok := p.(*Sheet); ok {
			return s
		}
		d, ok := p.(interface{ Inner() Piece })
		if !ok {
			return nil
		}
		p = d.Inner()
	}
	return nil
}
