package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette for the settings screen.
type Theme struct {
	Name string

	Background  string
	Surface     string
	Selection   string
	SelectionFg string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
	Locked  string

	// BadgeColors maps a form badge (dirty, saving, ...) to its fill color.
	BadgeColors map[string]string
}

// palette fills the derived badge colors from the semantic ones.
func palette(t Theme) Theme {
	t.BadgeColors = map[string]string{
		badgeDirty:   t.Warning,
		badgeSaving:  t.Accent,
		badgeSaved:   t.Success,
		badgeError:   t.Danger,
		badgeOffline: t.Muted,
		badgeLocked:  t.Locked,
	}
	return t
}

// Styles holds the lipgloss styles the views render with.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	badgeColors map[string]string
	badgeText   string
	badgeFill   string
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	bar := lipgloss.NewStyle().Background(lipgloss.Color(t.Surface)).Padding(0, 1)
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: bar.Foreground(lipgloss.Color(t.Text)),
		Footer: bar.Foreground(lipgloss.Color(t.Muted)),
		Logo:   fg(t.Warning).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Selection)).
			Foreground(lipgloss.Color(t.SelectionFg)),

		badgeColors: t.BadgeColors,
		badgeText:   t.Background,
		badgeFill:   t.Muted,
	}
}

// BadgeStyle returns the filled pill used for a header badge.
func (s Styles) BadgeStyle(badge string) lipgloss.Style {
	fill, ok := s.badgeColors[badge]
	if !ok || fill == "" {
		fill = s.badgeFill
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.badgeText)).
		Background(lipgloss.Color(fill)).
		Padding(0, 1)
}

// WithBackground paints every text style onto bgColor so segments joined on
// the header bar do not leave terminal-default gaps.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Footer, &s.Logo, &s.Selected,
	} {
		*st = st.Background(bg)
	}
	return s
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": palette(Theme{
		Name:        "Nightfox",
		Background:  "#131a24",
		Surface:     "#192330",
		Selection:   "#2b3b51",
		SelectionFg: "#cdcecf",
		BorderFocus: "#719cd6",
		Text:        "#cdcecf",
		Muted:       "#738091",
		Faint:       "#71839b",
		Accent:      "#719cd6",
		Success:     "#81b29a",
		Warning:     "#dbc074",
		Danger:      "#c94f6d",
		Info:        "#63cdcf",
		Locked:      "#f4a261",
	}),
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": palette(Theme{
		Name:        "Kanagawa",
		Background:  "#16161D",
		Surface:     "#1F1F28",
		Selection:   "#2D4F67",
		SelectionFg: "#DCD7BA",
		BorderFocus: "#7E9CD8",
		Text:        "#DCD7BA",
		Muted:       "#C8C093",
		Faint:       "#727169",
		Accent:      "#7E9CD8",
		Success:     "#98BB6C",
		Warning:     "#E6C384",
		Danger:      "#E46876",
		Info:        "#7FB4CA",
		Locked:      "#FFA066",
	}),
	// Tailwind slate with sky accents.
	"Slate": palette(Theme{
		Name:        "Slate",
		Background:  "#020617",
		Surface:     "#0f172a",
		Selection:   "#0284c7",
		SelectionFg: "#f8fafc",
		BorderFocus: "#38bdf8",
		Text:        "#f1f5f9",
		Muted:       "#94a3b8",
		Faint:       "#64748b",
		Accent:      "#38bdf8",
		Success:     "#22c55e",
		Warning:     "#f59e0b",
		Danger:      "#ef4444",
		Info:        "#06b6d4",
		Locked:      "#fb923c",
	}),
}

// GetTheme returns the named theme, or Nightfox when the name is unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames lists the themes in cycle order.
func ThemeNames() []string {
	return themeOrder
}
