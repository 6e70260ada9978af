package game

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"wargame/meta"
)

type Option func(s *Sheet)

// Sheet decorates a piece with a waypoint plan, step movement, passive detection and the
// fire / waypoint mouse modes. All methods must run on the host's dispatch goroutine.
type Sheet struct {
	inner Piece
	state State

	// not persisted
	temp []Point
	mode Mode

	keys      []KeyCommand
	rules     Rules
	rand      RandomSource
	transport Transport
	registry  Registry
	input     InputRouter
	dialog    ParameterDialog
}

func WithRules(rules Rules) Option {
	return func(s *Sheet) {
		if rules != nil {
			s.rules = rules
		}
	}
}

func WithRandom(r RandomSource) Option {
	return func(s *Sheet) {
		if r != nil {
			s.rand = r
		}
	}
}

func WithTransport(t Transport) Option {
	return func(s *Sheet) {
		if t != nil {
			s.transport = t
		}
	}
}

func WithRegistry(r Registry) Option {
	return func(s *Sheet) {
		if r != nil {
			s.registry = r
		}
	}
}

func WithInput(in InputRouter) Option {
	return func(s *Sheet) {
		if in != nil {
			s.input = in
		}
	}
}

func WithDialog(d ParameterDialog) Option {
	return func(s *Sheet) {
		if d != nil {
			s.dialog = d
		}
	}
}

// WithKeys rebinds the key of each command, commands missing from keys keep their default key.
func WithKeys(keys map[ActionType]string) Option {
	return func(s *Sheet) {
		for i := range s.keys {
			if k, ok := keys[s.keys[i].Action]; ok && k != "" {
				s.keys[i].Key = k
			}
		}
	}
}

func NewSheet(inner Piece, options ...Option) *Sheet {
	s := &Sheet{ // Default values
		inner:     inner,
		state:     State{Waypoints: []Point{}},
		keys:      defaultKeyCommands(),
		rules:     NewStandardRules(),
		rand:      rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		transport: discardTransport{},
		registry:  emptyRegistry{},
		input:     noInput{},
		dialog:    noDialog{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// NewFromType builds a sheet for a raw type token. It returns false when the token belongs
// to another decorator, which the caller then hands to its own factory.
func NewFromType(typeToken string, inner Piece, options ...Option) (*Sheet, bool) {
	if !IsType(typeToken) {
		return nil, false
	}
	s := NewSheet(inner, options...)
	s.SetType(typeToken)
	return s, true
}

func defaultKeyCommands() []KeyCommand {
	return []KeyCommand{
		{Name: "Open Aircraft Sheet", Action: OpenParametersAction, Key: "A"},
		{Name: "Fire", Action: FireAction, Key: "F"},
		{Name: "Plot Waypoint", Action: PlotWaypointAction, Key: "F3"},
		{Name: "Conclude Plot Waypoint", Action: ConcludeAction, Key: "Escape"},
		{Name: "Move a step", Action: AdvanceAction, Key: "M"},
	}
}

// KeysFromConfig maps configured key names onto sheet commands.
func KeysFromConfig(k meta.Keys) map[ActionType]string {
	return map[ActionType]string{
		OpenParametersAction: k.Open,
		FireAction:           k.Fire,
		PlotWaypointAction:   k.Waypoint,
		ConcludeAction:       k.Conclude,
		AdvanceAction:        k.Move,
	}
}

func (s *Sheet) KeyCommands() []KeyCommand {
	out := make([]KeyCommand, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *Sheet) Inner() Piece { return s.inner }
func (s *Sheet) Mode() Mode   { return s.mode }

// State returns a copy of the persisted state.
func (s *Sheet) State() State { return s.state.Copy() }

// TempWaypoints returns a copy of the in-progress plot.
func (s *Sheet) TempWaypoints() []Point {
	out := make([]Point, len(s.temp))
	copy(out, s.temp)
	return out
}

func (s *Sheet) StateToken() string { return EncodeState(s.state) }

func (s *Sheet) SetState(token string) {
	s.state = DecodeState(token)
}

func (s *Sheet) TypeToken() string { return EncodeType() }

// SetType accepts the type token. There is no configuration to read yet, a payload is
// logged and ignored.
func (s *Sheet) SetType(token string) {
	if payload := DecodeType(token); payload != "" {
		log.Debug().Str("piece", s.ID()).Str("payload", payload).Msg("ignoring sheet type payload")
	}
}

// Piece delegation.

func (s *Sheet) ID() string                    { return s.inner.ID() }
func (s *Sheet) Name() string                  { return s.inner.Name() }
func (s *Sheet) Position() Point               { return s.inner.Position() }
func (s *Sheet) Board() Board                  { return s.inner.Board() }
func (s *Sheet) BoundingBox() Rect             { return s.inner.BoundingBox() }
func (s *Sheet) Shape() Rect                   { return s.inner.Shape() }
func (s *Sheet) Selected() bool                { return s.inner.Selected() }
func (s *Sheet) Property(key string) string    { return s.inner.Property(key) }
func (s *Sheet) SetProperty(key, value string) { s.inner.SetProperty(key, value) }

// Draw draws the inner piece, then the detection ring, then the plans of a selected piece.
func (s *Sheet) Draw(surface Surface, x, y int, zoom float64) {
	s.inner.Draw(surface, x, y, zoom)

	board := s.Board()
	if board == nil {
		return
	}

	if s.state.DetectionRange > 0 {
		r := board.DrawingDistance(s.state.DetectionRange, zoom)
		surface.DrawCircle(x, y, r)
	}

	if s.Selected() {
		if len(s.state.Waypoints) > 0 {
			s.drawWaypoints(surface, board, zoom, CommittedPath, s.state.Waypoints)
		}
		if len(s.temp) > 0 {
			s.drawWaypoints(surface, board, zoom, TempPath, s.temp)
		}
	}
}

func (s *Sheet) drawWaypoints(surface Surface, board Board, zoom float64, style PathStyle, waypoints []Point) {
	pts := make([]Point, 0, len(waypoints)+1)
	pts = append(pts, board.DrawingPoint(s.Position(), zoom))
	for _, p := range waypoints {
		pts = append(pts, board.DrawingPoint(p, zoom))
	}
	surface.DrawPath(style, pts)
}

type discardTransport struct{}

func (discardTransport) SendAndLog(Change) {}

type emptyRegistry struct{}

func (emptyRegistry) Sheets() []*Sheet { return nil }

type noInput struct{}

func (noInput) Capture(MouseTarget) {}
func (noInput) Release(MouseTarget) {}

type noDialog struct{}

func (noDialog) Open(string, int, func(int)) {}
