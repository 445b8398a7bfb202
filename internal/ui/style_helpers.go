package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders header and command bar segments onto one background.
// Lipgloss resets after each styled run, so bare spaces between runs would
// otherwise show the terminal background.
type BgStyle struct {
	bg    lipgloss.Color
	fill  lipgloss.Style
	space string
}

func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	fill := lipgloss.NewStyle().Background(bg)
	return BgStyle{bg: bg, fill: fill, space: fill.Render(" ")}
}

// Render styles text word by word and joins the words with filled spaces.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.bg)
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

func (b BgStyle) Space() string { return b.space }

func (b BgStyle) Spaces(n int) string { return b.fill.Render(strings.Repeat(" ", n)) }

func (b BgStyle) Sep(sep string) string { return b.fill.Render(sep) }

// Join joins rendered parts with sep drawn on the background.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}
