package game

import "fmt"

// Recorder is a Surface that keeps the drawing operations as text lines.
type Recorder struct {
	Ops []string
}

func (r *Recorder) DrawLabel(x, y int, text string) {
	r.Ops = append(r.Ops, fmt.Sprintf("label %d,%d %q", x, y, text))
}

func (r *Recorder) DrawCircle(cx, cy, radius int) {
	r.Ops = append(r.Ops, fmt.Sprintf("circle %d,%d r=%d", cx, cy, radius))
}

func (r *Recorder) DrawPath(style PathStyle, pts []Point) {
	name := "committed"
	if style == TempPath {
		name = "temp"
	}
	r.Ops = append(r.Ops, fmt.Sprintf("path %s %v", name, pts))
}
