package ui

import (
	"fmt"

	"github.com/five82/perch/internal/form"
)

// formWatch collects form store changes between Bubble Tea updates. The
// store calls observe synchronously; Update drains it through syncForm.
type formWatch struct {
	stale   bool
	pending *notice
}

func (w *formWatch) observe(c form.Change) {
	w.stale = true
	switch c.Reason {
	case form.ReasonInitialize, form.ReasonEdit:
		w.pending = &notice{}
	case form.ReasonSaveStarted:
		w.pending = &notice{text: "Saving...", level: noticeInfo}
	case form.ReasonSaveSucceeded:
		w.pending = &notice{text: "Settings saved successfully!", level: noticeSuccess}
	case form.ReasonSaveFailed:
		w.pending = &notice{text: fmt.Sprintf("Save failed: %v", c.Err), level: noticeError}
	}
}

// syncForm re-renders the body if the form changed since the last call and
// shows the notice the latest save or edit asked for.
func (m *Model) syncForm() {
	if !m.watch.stale {
		return
	}
	m.watch.stale = false
	if n := m.watch.pending; n != nil {
		m.notice = *n
		m.watch.pending = nil
	}
	m.updateBody()
}
