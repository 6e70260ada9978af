package engine

import "github.com/rs/zerolog/log"

// Dialog is a parameter dialog answered by a later DialogEvent.
type Dialog struct {
	title   string
	value   int
	onClose func(int)
}

func (d *Dialog) Open(title string, value int, onClose func(int)) {
	d.title = title
	d.value = value
	d.onClose = onClose
	log.Info().Msgf("%s: detection range is %d, answer with a new value", title, value)
}

// Pending reports the title and current value of the open dialog.
func (d *Dialog) Pending() (string, int, bool) {
	if d.onClose == nil {
		return "", 0, false
	}
	return d.title, d.value, true
}

// Answer closes the open dialog with value. It reports false when no dialog is open.
func (d *Dialog) Answer(value int) bool {
	if d.onClose == nil {
		return false
	}
	onClose := d.onClose
	d.onClose = nil
	onClose(value)
	return true
}
