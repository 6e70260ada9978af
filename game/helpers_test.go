package game

type changeLog struct {
	changes []Change
}

func (l *changeLog) SendAndLog(c Change) {
	l.changes = append(l.changes, c)
}

type fixedRolls struct {
	rolls []float64
	next  int
}

func (f *fixedRolls) Float64() float64 {
	r := f.rolls[f.next%len(f.rolls)]
	f.next++
	return r
}

type stubDialog struct {
	opened  int
	title   string
	value   int
	onClose func(int)
}

func (d *stubDialog) Open(title string, value int, onClose func(int)) {
	d.opened++
	d.title = title
	d.value = value
	d.onClose = onClose
}

func newTestSheet(id string, at Point, m *Map, log *changeLog, options ...Option) *Sheet {
	base := []Option{WithTransport(log), WithRegistry(m), WithInput(m)}
	s := NewSheet(NewCounter(id, id), append(base, options...)...)
	m.AddPiece(s, at)
	return s
}
