package game

type DeltaKind int

const (
	DeltaState    DeltaKind = iota // Before/After are sheet state tokens
	DeltaMove                      // From/To are board positions
	DeltaProperty                  // Key changed from Before to After
	DeltaRemove                    // piece left the board at From
	DeltaRestore                   // removed piece returns to the board at To
)

// Delta is one before/after pair inside a change.
type Delta struct {
	Kind    DeltaKind `json:"kind"`
	PieceID string    `json:"piece"`
	Key     string    `json:"key,omitempty"`
	Before  string    `json:"before,omitempty"`
	After   string    `json:"after,omitempty"`
	From    Point     `json:"from"`
	To      Point     `json:"to"`
}

// Inverse returns the delta that undoes d.
func (d Delta) Inverse() Delta {
	inv := d
	inv.Before, inv.After = d.After, d.Before
	inv.From, inv.To = d.To, d.From
	switch d.Kind {
	case DeltaRemove:
		inv.Kind = DeltaRestore
	case DeltaRestore:
		inv.Kind = DeltaRemove
	}
	return inv
}

// Change is an atomic, replicated and undoable state mutation with its log line.
type Change struct {
	Log    string  `json:"log"`
	Deltas []Delta `json:"deltas,omitempty"`
}

func (c Change) Append(d ...Delta) Change {
	c.Deltas = append(c.Deltas, d...)
	return c
}

// Inverse undoes the deltas in reverse order.
func (c Change) Inverse() Change {
	inv := Change{Log: "Undo " + c.Log, Deltas: make([]Delta, 0, len(c.Deltas))}
	for i := len(c.Deltas) - 1; i >= 0; i-- {
		inv.Deltas = append(inv.Deltas, c.Deltas[i].Inverse())
	}
	return inv
}

func stateDelta(pieceID, before, after string) Delta {
	return Delta{Kind: DeltaState, PieceID: pieceID, Before: before, After: after}
}
