package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/perch/internal/form"
	"github.com/five82/perch/internal/settings"
)

const labelWidth = 42

// updateBody re-renders the form into the viewport and keeps the cursor row
// on screen.
func (m *Model) updateBody() {
	if !m.ready {
		return
	}
	m.body.Width = m.width
	m.body.Height = m.bodyHeight()

	content, cursorLine := m.renderForm()
	m.body.SetContent(content)

	switch {
	case cursorLine < 0:
	case cursorLine < m.body.YOffset:
		m.body.SetYOffset(cursorLine)
	case cursorLine >= m.body.YOffset+m.body.Height:
		m.body.SetYOffset(cursorLine - m.body.Height + 1)
	}
}

// renderForm returns the form body and the line index of the cursor row.
func (m Model) renderForm() (string, int) {
	styles := m.theme.Styles()

	if !m.hasSite || !m.form.HasSnapshot() {
		msg := "Loading settings…"
		if m.snapshot.LastError != nil {
			msg = "Waiting for the API: " + m.snapshot.LastError.Error()
		}
		return "\n  " + styles.MutedText.Render(msg), -1
	}

	layout := m.layout()
	var lines []string
	cursorLine := -1
	idx := 0

	if layout.Locked {
		lines = append(lines, "",
			"  "+styles.WarningText.Bold(true).Render(layout.Warning))
		if l := layout.WarningLink; l.URL != "" {
			lines = append(lines, "  "+m.renderLink(l))
		}
	}

	for _, sec := range layout.Sections {
		lines = append(lines, "", "  "+styles.AccentText.Bold(true).Render(sec.Title))
		for _, note := range sec.Notes {
			lines = append(lines, "    "+styles.MutedText.Render(note))
		}
		for _, keyName := range sec.Fields {
			selected := idx == m.cursor
			if selected {
				cursorLine = len(lines)
			}
			lines = append(lines, m.renderField(keyName, selected, slices.Contains(sec.Inactive, keyName)))
			idx++
		}
		for _, link := range sec.Links {
			lines = append(lines, "    "+m.renderLink(link))
		}
	}

	return strings.Join(lines, "\n"), cursorLine
}

func (m Model) renderField(keyName string, selected, inactive bool) string {
	styles := m.theme.Styles()
	field, _ := settings.Schema().Lookup(keyName)

	marker := "  "
	if m.form.IsDirty(keyName) {
		marker = styles.WarningText.Render("● ")
	}

	value := m.displayValue(keyName)
	if m.editing && m.editKey == keyName {
		value = m.input.Value() + "▏"
	}

	row := padRight(truncate(field.Label, labelWidth-1), labelWidth) + value
	switch {
	case selected:
		row = styles.Selected.Width(max(m.width-6, 0)).Render(row)
	case inactive:
		row = styles.FaintText.Render(row)
	default:
		row = styles.Text.Render(row)
	}
	return "  " + marker + row
}

// displayValue formats a field value for the form body.
func (m Model) displayValue(keyName string) string {
	v, _ := m.form.Value(keyName)
	if v.IsBlank() {
		return "not set"
	}

	switch keyName {
	case settings.KeyLangID:
		n, _ := v.Int()
		return settings.LanguageName(n)
	case settings.KeyBlogPublic:
		n, _ := v.Int()
		return settings.VisibilityLabel(n)
	case settings.KeyTimezoneString:
		return strings.ReplaceAll(v.Str(), "_", " ")
	case settings.KeyRelatedPostsEnabled:
		return checkbox(v.Truthy())
	}

	if v.Kind() == form.KindBool {
		return checkbox(v.Truthy())
	}
	if s := v.Str(); s != "" {
		return s
	}
	return `""`
}

func (m Model) renderLink(l settings.Link) string {
	styles := m.theme.Styles()
	text := fmt.Sprintf("%s: %s", l.Label, l.URL)
	if l.Disabled {
		return styles.FaintText.Render(text)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info)).Underline(true).Render(text)
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// inactive reports whether keyName is shown greyed out in the current layout.
func (m Model) inactive(keyName string) bool {
	for _, sec := range m.layout().Sections {
		if slices.Contains(sec.Inactive, keyName) {
			return true
		}
	}
	return false
}
