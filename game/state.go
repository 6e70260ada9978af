package game

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"
	"strings"

	"wargame/meta"
)

// TypeID heads the type token of a sheet. The trailing delimiter keeps a prefix match
// against it from also accepting other decorators whose tag merely starts the same way.
const TypeID = "AircraftSheet;"

const delimiter = ";"

type StateHash uint64

// State is the persisted, replicated part of a sheet.
type State struct {
	DetectionRange int     // map distance units, 0 disables the ring and the detection check
	Waypoints      []Point // committed plan in traversal order
}

func (s State) Copy() State {
	waypointsCopy := make([]Point, len(s.Waypoints))
	copy(waypointsCopy, s.Waypoints)
	return State{DetectionRange: s.DetectionRange, Waypoints: waypointsCopy}
}

func (s State) Equal(o State) bool {
	if s.DetectionRange != o.DetectionRange || len(s.Waypoints) != len(o.Waypoints) {
		return false
	}
	for i := range s.Waypoints {
		if s.Waypoints[i] != o.Waypoints[i] {
			return false
		}
	}
	return true
}

func (s State) Hash() StateHash {
	h := fnv.New64a()
	buf := make([]byte, 8)
	write := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
		h.Write(buf)
	}
	write(s.DetectionRange)
	write(len(s.Waypoints))
	for _, p := range s.Waypoints {
		write(p.X)
		write(p.Y)
	}
	return StateHash(h.Sum64())
}

// EncodeState writes range;count;x1;y1;x2;y2;...
func EncodeState(s State) string {
	fields := make([]string, 0, 2+2*len(s.Waypoints))
	fields = append(fields, strconv.Itoa(s.DetectionRange), strconv.Itoa(len(s.Waypoints)))
	for _, p := range s.Waypoints {
		fields = append(fields, strconv.Itoa(p.X), strconv.Itoa(p.Y))
	}
	return strings.Join(fields, delimiter)
}

// DecodeState never fails: a missing or unreadable field reads as 0. Every waypoint present
// in the token is read. Missing trailing waypoints are padded with the origin only while the
// plan is shorter than MAX_WAYPOINTS.
func DecodeState(token string) State {
	d := newDecoder(token)

	s := State{DetectionRange: max(d.nextInt(0), 0)}
	count := max(d.nextInt(0), 0)
	s.Waypoints = make([]Point, 0, min(count, (d.remaining()+1)/2+meta.MAX_WAYPOINTS))
	for i := 0; i < count; i++ {
		if d.remaining() == 0 && i >= meta.MAX_WAYPOINTS {
			break
		}
		x := d.nextInt(0)
		y := d.nextInt(0)
		s.Waypoints = append(s.Waypoints, Point{X: x, Y: y})
	}
	return s
}

// EncodeType returns the type token. Sheets carry no configuration yet, so the payload is empty.
func EncodeType() string {
	return TypeID
}

// DecodeType drops the tag and returns whatever configuration payload follows it.
func DecodeType(token string) string {
	d := newDecoder(token)
	d.nextToken("") // tag
	return d.rest()
}

// IsType reports whether a raw type token belongs to a sheet.
func IsType(token string) bool {
	return strings.HasPrefix(token, TypeID)
}

type decoder struct {
	tokens []string
}

func newDecoder(s string) *decoder {
	if s == "" {
		return &decoder{}
	}
	return &decoder{tokens: strings.Split(s, delimiter)}
}

func (d *decoder) nextToken(def string) string {
	if len(d.tokens) == 0 {
		return def
	}
	t := d.tokens[0]
	d.tokens = d.tokens[1:]
	return t
}

func (d *decoder) nextInt(def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(d.nextToken("")))
	if err != nil {
		return def
	}
	return v
}

func (d *decoder) remaining() int {
	return len(d.tokens)
}

func (d *decoder) rest() string {
	return strings.Join(d.tokens, delimiter)
}
