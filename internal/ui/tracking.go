package ui

import "log/slog"

// navGuard tracks whether leaving would lose edits. The form store flips it
// through MarkChanged and MarkSaved.
type navGuard struct {
	dirty bool
}

func (g *navGuard) MarkChanged() { g.dirty = true }

func (g *navGuard) MarkSaved() { g.dirty = false }

// Dirty reports whether unsaved edits exist.
func (g *navGuard) Dirty() bool { return g.dirty }

const analyticsCategory = "Site Settings"

// tracker records UI analytics events as debug log records.
type tracker struct {
	once map[string]bool
	emit func(action string)
}

func newTracker() *tracker {
	return &tracker{
		once: map[string]bool{},
		emit: func(action string) {
			slog.Debug("record event", "category", analyticsCategory, "action", action)
		},
	}
}

func (t *tracker) record(action string) {
	t.emit(action)
}

// recordOnce records action the first time key is seen since the last reset.
func (t *tracker) recordOnce(key, action string) {
	if t.once[key] {
		return
	}
	t.once[key] = true
	t.record(action)
}

// reset forgets once-keys; called when a new site is mounted.
func (t *tracker) reset() {
	clear(t.once)
}
