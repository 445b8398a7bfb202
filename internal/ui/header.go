package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/perch/internal/settings"
)

// Badge names used for header state and theme colors.
const (
	badgeDirty   = "dirty"
	badgeSaving  = "saving"
	badgeSaved   = "saved"
	badgeError   = "error"
	badgeOffline = "offline"
	badgeLocked  = "locked"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.hasSite {
		return m.renderConnectingHeader(styles, bg)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the state before the first site arrives.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.snapshot.LastUpdated.IsZero() {
			last = m.snapshot.LastUpdated.Format("15:04:05")
		}
		parts := []string{
			bg.Render("perch", styles.Logo),
			bg.Render("API "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
			bg.Render(truncate(m.snapshot.LastError.Error(), 60), styles.MutedText),
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("perch", styles.Logo) + sep +
			bg.Render("Loading site settings...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	var parts []string

	parts = append(parts, bg.Render("perch", styles.Logo))

	name := strings.TrimSpace(m.site.Name)
	if name == "" {
		name = m.site.Domain()
	}
	maxName := 40
	if compact {
		maxName = 20
	}
	parts = append(parts, bg.Render(truncate(name, maxName), styles.Text.Bold(true)))

	if !compact {
		if domain := m.site.Domain(); domain != "" && domain != name {
			parts = append(parts, bg.Render(domain, styles.MutedText))
		}
	}

	if m.site.Jetpack {
		label := "Jetpack"
		if v := m.site.Options.JetpackVersion; v != "" {
			label += " " + v
		}
		parts = append(parts, bg.Render(label, styles.InfoText))
	}

	if badge := m.formBadge(); badge != "" {
		parts = append(parts, styles.BadgeStyle(badge).Render(m.badgeLabel(badge)))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.IsOffline() {
		parts = append(parts, styles.BadgeStyle(badgeOffline).Render("OFFLINE"))
	}
	if m.snapshot.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText),
		)
	}

	return bg.Join(parts, "  ")
}

// formBadge picks the single most relevant form state for the header.
func (m Model) formBadge() string {
	switch {
	case m.layout().Locked:
		return badgeLocked
	case m.form.Saving():
		return badgeSaving
	case m.notice.level == noticeError:
		return badgeError
	case m.form.Dirty():
		return badgeDirty
	case m.notice.level == noticeSuccess:
		return badgeSaved
	}
	return ""
}

func (m Model) badgeLabel(badge string) string {
	switch badge {
	case badgeSaving:
		return "Saving…"
	case badgeDirty:
		return fmt.Sprintf("%d unsaved", len(m.form.DirtyKeys()))
	case badgeSaved:
		return "Saved"
	case badgeError:
		return "Error"
	case badgeLocked:
		return "Locked"
	}
	return strings.ToUpper(badge)
}

// formatTimestamp formats the last poll time with a relative indicator.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}

	since := m.now().Sub(last)
	out := last.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status 401"), strings.Contains(msg, "status 403"):
		return "UNAUTHORIZED"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	colon := bg.Sep(":")
	segments := make([]string, 0, 8)

	if m.editing {
		for _, b := range []struct{ key, desc string }{
			{m.keys.Confirm.Help().Key, "Apply"},
			{m.keys.Cancel.Help().Key, "Discard"},
		} {
			segments = append(segments, bg.Render(b.key, styles.AccentText)+colon+bg.Render(b.desc, styles.MutedText))
		}
	} else {
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			segments = append(segments, bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
		}
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderFooter shows the current notice or the inline editor.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	if m.editing {
		return styles.Footer.Width(m.width).Render(m.input.View())
	}

	text := m.notice.text
	style := styles.MutedText
	switch m.notice.level {
	case noticeSuccess:
		style = styles.SuccessText
	case noticeError:
		style = styles.DangerText
	}
	if text == "" {
		if keyName, ok := m.selectedField(); ok {
			if field, ok := settings.Schema().Lookup(keyName); ok {
				text = field.Label + " (" + keyName + ")"
				style = styles.FaintText
			}
		}
	}
	return styles.Footer.Width(m.width).Render(style.Render(truncate(text, max(m.width-2, 0))))
}
