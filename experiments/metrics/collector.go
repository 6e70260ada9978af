package metrics

import (
	"strings"
	"sync/atomic"
	"time"

	"wargame/game"
)

type SessionMetric struct {
	Duration     time.Duration
	Changes      int
	Moves        int
	Plots        int
	Contacts     int
	Shots        int
	Hits         int
	RangeChanges int
	Undos        int
}

type Collector interface {
	Start()
	Record(c game.Change)
	AddUndo()
	Complete() SessionMetric
}

type collector struct {
	startTime    time.Time
	changes      atomic.Int32
	moves        atomic.Int32
	plots        atomic.Int32
	contacts     atomic.Int32
	shots        atomic.Int32
	hits         atomic.Int32
	rangeChanges atomic.Int32
	undos        atomic.Int32
}

func NewCollector() Collector {
	return &collector{startTime: time.Now()}
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

// Record classifies a change by its log line and deltas.
func (m *collector) Record(c game.Change) {
	m.changes.Add(1)
	switch {
	case c.Log == "Movement":
		m.moves.Add(1)
	case c.Log == "Set Waypoint":
		m.plots.Add(1)
	case c.Log == "New Contact!":
		m.contacts.Add(1)
	case c.Log == "Change Piece":
		m.rangeChanges.Add(1)
	case strings.HasPrefix(c.Log, "Firing Resolution"):
		m.shots.Add(1)
		for _, d := range c.Deltas {
			if d.Kind == game.DeltaRemove {
				m.hits.Add(1)
			}
		}
	}
}

func (m *collector) AddUndo() {
	m.undos.Add(1)
}

func (m *collector) Complete() SessionMetric {
	return SessionMetric{
		Duration:     time.Since(m.startTime),
		Changes:      int(m.changes.Load()),
		Moves:        int(m.moves.Load()),
		Plots:        int(m.plots.Load()),
		Contacts:     int(m.contacts.Load()),
		Shots:        int(m.shots.Load()),
		Hits:         int(m.hits.Load()),
		RangeChanges: int(m.rangeChanges.Load()),
		Undos:        int(m.undos.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                  {}
func (m *dummyCollector) Record(c game.Change)    {}
func (m *dummyCollector) AddUndo()                {}
func (m *dummyCollector) Complete() SessionMetric { return SessionMetric{} }
