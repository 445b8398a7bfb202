package ui

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/perch/internal/form"
	"github.com/five82/perch/internal/prefs"
	"github.com/five82/perch/internal/settings"
)

// fieldEvents are the analytics actions recorded when a field is opened.
var fieldEvents = map[string]string{
	settings.KeyBlogname:            "Clicked Site Title Field",
	settings.KeyBlogdescription:     "Clicked Site Site Tagline Field",
	settings.KeyLangID:              "Clicked Language Field",
	settings.KeyBlogPublic:          "Clicked Site Visibility Radio Button",
	settings.KeyRelatedPostsEnabled: "Clicked Related Posts Radio Button",
}

// typingEvents fire once per mount on the first keystroke in a text field.
var typingEvents = map[string][2]string{
	settings.KeyBlogname:        {"typedTitle", "Typed in Site Title Field"},
	settings.KeyBlogdescription: {"typedTagline", "Typed in Site Site Tagline Field"},
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}

	if m.editing {
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.guard.Dirty() {
			m.modal = newDiscardModal(len(m.form.DirtyKeys()))
			return m, m.modal.Init()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		name := m.theme.Name
		if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
			slog.Debug("save theme failed", "error", err)
		}
		m.updateBody()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.notice = notice{}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, m.save()

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshFn == nil || m.store == nil {
			return m, nil
		}
		m.notice = notice{text: "Refreshing settings...", level: noticeInfo}
		return m, refreshCmd(m.ctx, m.refreshFn, m.store)

	case key.Matches(msg, m.keys.Edit):
		cmd := m.activate()
		m.updateBody()
		return m, cmd
	}

	return m.handleNavKey(msg)
}

// handleNavKey moves the field cursor and scrolls the body.
func (m Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.layout().Fields())
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(count-1, 0)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.body.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.HalfPageUp):
		m.body.HalfPageUp()
		return m, nil
	default:
		return m, nil
	}
	m.updateBody()
	return m, nil
}

// selectedField returns the key under the cursor.
func (m Model) selectedField() (string, bool) {
	fields := m.layout().Fields()
	if len(fields) == 0 {
		return "", false
	}
	idx := min(max(m.cursor, 0), len(fields)-1)
	return fields[idx], true
}

// editable reports why the form cannot take edits right now, if it can't.
func (m Model) editable() error {
	switch {
	case !m.hasSite || !m.form.HasSnapshot():
		return errors.New("settings are still loading")
	case m.form.Saving():
		return errors.New("settings are being saved")
	}
	return nil
}

// activate edits, toggles or opens a picker for the field under the cursor.
func (m *Model) activate() tea.Cmd {
	keyName, ok := m.selectedField()
	if !ok {
		return nil
	}
	if err := m.editable(); err != nil {
		m.notice = notice{text: capitalize(err.Error()), level: noticeInfo}
		return nil
	}
	if m.inactive(keyName) {
		m.notice = notice{text: "Enable related posts to change this option", level: noticeInfo}
		return nil
	}
	if action, ok := fieldEvents[keyName]; ok {
		m.tracker.record(action)
	}

	current, _ := m.form.Value(keyName)
	switch keyName {
	case settings.KeyLangID:
		n, _ := current.Int()
		m.modal = newSelectModal(keyName, "Language", settings.LanguageChoices(), strconv.FormatInt(n, 10))
		return m.modal.Init()
	case settings.KeyTimezoneString:
		m.modal = newSelectModal(keyName, "Site Timezone", settings.TimezoneChoices(current.Str()), current.Str())
		return m.modal.Init()
	case settings.KeyBlogPublic:
		n, _ := current.Int()
		m.modal = newSelectModal(keyName, "Site Visibility", settings.VisibilityChoices(m.layout().AllowPrivate), strconv.FormatInt(n, 10))
		return m.modal.Init()
	case settings.KeyRelatedPostsEnabled:
		next := int64(1)
		if current.Truthy() {
			next = 0
		}
		m.setField(keyName, next)
		return nil
	case settings.KeyAMPEnabled:
		m.setField(keyName, !current.Truthy())
		m.tracker.record("Clicked AMP Toggle")
		return m.beginSave()
	}

	field, _ := settings.Schema().Lookup(keyName)
	if field.Kind == form.KindBool {
		m.setField(keyName, !current.Truthy())
		return nil
	}

	m.editing = true
	m.editKey = keyName
	m.input.SetValue(current.Str())
	m.input.CursorEnd()
	m.input.Prompt = field.Label + ": "
	return m.input.Focus()
}

// handleEditKey routes keys to the inline text input.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.commitEdit()
		m.updateBody()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		m.updateBody()
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		if ev, ok := typingEvents[m.editKey]; ok {
			m.tracker.recordOnce(ev[0], ev[1])
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.updateBody()
	return m, cmd
}

// commitEdit stores the edited text. Unchanged text is not an edit.
func (m *Model) commitEdit() {
	keyName, value := m.editKey, m.input.Value()
	m.stopEditing()
	if m.form.Matches(keyName, value) {
		return
	}
	m.setField(keyName, value)
}

func (m *Model) stopEditing() {
	m.editing = false
	m.editKey = ""
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) setField(keyName string, raw any) {
	if err := m.form.SetField(keyName, raw); err != nil {
		m.notice = notice{text: err.Error(), level: noticeError}
	}
}

// save is the explicit save action.
func (m *Model) save() tea.Cmd {
	if err := m.editable(); err != nil {
		m.notice = notice{text: capitalize(err.Error()), level: noticeInfo}
		return nil
	}
	if m.layout().Locked {
		m.notice = notice{text: "Settings are locked for this site", level: noticeError}
		return nil
	}
	cmd := m.beginSave()
	m.tracker.record("Clicked Save Settings Button")
	return cmd
}

// beginSave snapshots the whole form and submits it.
func (m *Model) beginSave() tea.Cmd {
	if m.api == nil {
		return nil
	}
	fields, err := m.form.BeginSave()
	if err != nil {
		m.notice = notice{text: capitalize(err.Error()), level: noticeInfo}
		return nil
	}
	return saveCmd(m.ctx, m.api, m.site.ID, fields)
}

// handleSaveResult settles the save that produced msg. Results for another
// site are stale: the form was re-initialized and has no save in flight.
func (m *Model) handleSaveResult(msg saveResultMsg) {
	if !m.hasSite || msg.siteID != m.site.ID {
		slog.Debug("stale save result dropped", "site_id", msg.siteID)
		return
	}
	if msg.err != nil {
		err := m.form.OnSaveFailed(msg.err)
		slog.Warn("settings save failed", "site_id", msg.siteID, "error", err)
		return
	}
	m.form.OnSaveSucceeded()
	m.form.ApplySnapshot(settings.FromRaw(msg.updated))
	slog.Info("settings saved", "site_id", msg.siteID)
}
