package game

// Counter is the plain base piece: a square token with a name and free-form properties.
type Counter struct {
	id    string
	name  string
	size  int
	pos   Point
	board *Map
	props map[string]string
}

func NewCounter(id, name string) *Counter {
	return &Counter{
		id:    id,
		name:  name,
		size:  20,
		props: make(map[string]string),
	}
}

func (c *Counter) ID() string      { return c.id }
func (c *Counter) Name() string    { return c.name }
func (c *Counter) Position() Point { return c.pos }

func (c *Counter) Board() Board {
	if c.board == nil {
		return nil // keep the interface nil, not a typed nil
	}
	return c.board
}

func (c *Counter) BoundingBox() Rect {
	half := c.size / 2
	return Rect{X: c.pos.X - half, Y: c.pos.Y - half, W: c.size, H: c.size}
}

func (c *Counter) Shape() Rect { return c.BoundingBox() }

func (c *Counter) Selected() bool {
	return c.board != nil && c.board.selected == c.id
}

func (c *Counter) Property(key string) string { return c.props[key] }

func (c *Counter) SetProperty(key, value string) {
	if value == "" {
		delete(c.props, key)
		return
	}
	c.props[key] = value
}

func (c *Counter) Draw(s Surface, x, y int, zoom float64) {
	s.DrawLabel(x, y, c.name)
}
