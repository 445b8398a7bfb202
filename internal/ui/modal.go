package ui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/perch/internal/settings"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Init() tea.Cmd
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// huhModal hosts a single-field huh form.
type huhModal struct {
	form    *huh.Form
	aborted bool
}

func (h *huhModal) Init() tea.Cmd { return h.form.Init() }

func (h *huhModal) update(msg tea.Msg, keys keyMap) (tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.Cancel) {
		h.aborted = true
		return nil, true
	}
	f, cmd := h.form.Update(msg)
	if ff, ok := f.(*huh.Form); ok {
		h.form = ff
	}
	switch h.form.State {
	case huh.StateCompleted:
		return cmd, true
	case huh.StateAborted:
		h.aborted = true
		return cmd, true
	}
	return cmd, false
}

func (h *huhModal) view(theme Theme, width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(min(max(width-8, 20), 64))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		box.Render(h.form.View()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// selectModal picks one value for an enumerated field.
type selectModal struct {
	huhModal
	key   string
	value string
}

func newSelectModal(fieldKey, title string, choices []settings.Choice, current string) *selectModal {
	m := &selectModal{key: fieldKey, value: current}
	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c.Label, c.Value))
	}
	sel := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&m.value)
	if len(choices) > 8 {
		sel = sel.Filtering(true).Height(14)
	}
	m.form = huh.NewForm(huh.NewGroup(sel)).
		WithTheme(huh.ThemeDracula()).
		WithShowHelp(true)
	return m
}

func (m *selectModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	cmd, done := m.update(msg, keys)
	return m, cmd, done
}

func (m *selectModal) View(theme Theme, width, height int) string {
	return m.view(theme, width, height)
}

// discardModal is the navigation guard shown when quitting with unsaved edits.
type discardModal struct {
	huhModal
	discard bool
}

func newDiscardModal(dirty int) *discardModal {
	m := &discardModal{}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Discard unsaved changes?").
			Description(fmt.Sprintf("%d field(s) have not been saved.", dirty)).
			Affirmative("Discard").
			Negative("Keep editing").
			Value(&m.discard),
	)).WithTheme(huh.ThemeDracula())
	return m
}

func (m *discardModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	cmd, done := m.update(msg, keys)
	return m, cmd, done
}

func (m *discardModal) View(theme Theme, width, height int) string {
	return m.view(theme, width, height)
}

// updateModal forwards msg to the open modal and applies its result once it
// closes.
func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd, done := m.modal.Update(msg, m.keys)
	if !done {
		m.modal = next
		return m, cmd
	}
	m.modal = nil

	switch res := next.(type) {
	case *selectModal:
		if res.aborted {
			break
		}
		if m.form.Matches(res.key, res.value) {
			break
		}
		m.setField(res.key, res.value)
	case *discardModal:
		if !res.aborted && res.discard {
			slog.Info("quit with unsaved changes", "keys", m.form.DirtyKeys())
			return m, tea.Quit
		}
	}
	return m, nil
}
