package settings

import (
	"fmt"
	"strings"
)

// Choice is one selectable value for an enumerated field.
type Choice struct {
	Label string
	Value string
}

// Language is a site language with its WordPress.com ID.
type Language struct {
	ID   int64
	Slug string
	Name string
}

var languages = []Language{
	{1, "en", "English"},
	{3, "ar", "العربية"},
	{15, "de", "Deutsch"},
	{19, "es", "Español"},
	{24, "fr", "Français"},
	{33, "id", "Bahasa Indonesia"},
	{35, "it", "Italiano"},
	{36, "ja", "日本語"},
	{40, "he", "עברית"},
	{49, "nl", "Nederlands"},
	{58, "pl", "Polski"},
	{62, "ru", "Русский"},
	{68, "sv", "Svenska"},
	{78, "tr", "Türkçe"},
	{438, "pt-br", "Português do Brasil"},
	{449, "zh-cn", "简体中文"},
	{452, "zh-tw", "繁體中文"},
	{456, "ko", "한국어"},
}

// Languages returns the selectable site languages.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// LanguageName returns the display name for id, or the id itself.
func LanguageName(id int64) string {
	for _, l := range languages {
		if l.ID == id {
			return l.Name
		}
	}
	return fmt.Sprintf("language #%d", id)
}

// LanguageChoices lists the languages as picker options keyed by ID.
func LanguageChoices() []Choice {
	out := make([]Choice, 0, len(languages))
	for _, l := range languages {
		out = append(out, Choice{Label: l.Name + " (" + l.Slug + ")", Value: fmt.Sprint(l.ID)})
	}
	return out
}

var zones = []string{
	"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos", "Africa/Nairobi",
	"America/Anchorage", "America/Argentina/Buenos_Aires", "America/Bogota",
	"America/Chicago", "America/Denver", "America/Halifax", "America/Los_Angeles",
	"America/Mexico_City", "America/New_York", "America/Phoenix", "America/Santiago",
	"America/Sao_Paulo", "America/St_Johns", "America/Toronto", "America/Vancouver",
	"Asia/Bangkok", "Asia/Dubai", "Asia/Hong_Kong", "Asia/Jakarta", "Asia/Jerusalem",
	"Asia/Karachi", "Asia/Kathmandu", "Asia/Kolkata", "Asia/Manila", "Asia/Seoul",
	"Asia/Shanghai", "Asia/Singapore", "Asia/Tehran", "Asia/Tokyo",
	"Atlantic/Reykjavik", "Australia/Adelaide", "Australia/Brisbane",
	"Australia/Perth", "Australia/Sydney", "Europe/Amsterdam", "Europe/Athens",
	"Europe/Berlin", "Europe/Dublin", "Europe/Istanbul", "Europe/Lisbon",
	"Europe/London", "Europe/Madrid", "Europe/Moscow", "Europe/Paris",
	"Europe/Rome", "Europe/Stockholm", "Europe/Warsaw", "Pacific/Auckland",
	"Pacific/Honolulu",
}

// manual offsets in half hours, as WordPress offers them
var manualOffsets = []string{
	"-12", "-11.5", "-11", "-10.5", "-10", "-9.5", "-9", "-8.5", "-8", "-7.5", "-7",
	"-6.5", "-6", "-5.5", "-5", "-4.5", "-4", "-3.5", "-3", "-2.5", "-2", "-1.5",
	"-1", "-0.5", "0", "0.5", "1", "1.5", "2", "2.5", "3", "3.5", "4", "4.5", "5",
	"5.5", "5.75", "6", "6.5", "7", "7.5", "8", "8.5", "8.75", "9", "9.5", "10",
	"10.5", "11", "11.5", "12", "12.75", "13", "13.75", "14",
}

// TimezoneChoices lists city zones followed by manual UTC offsets. current is
// included even when the list does not know it, so a picker never drops the
// stored value.
func TimezoneChoices(current string) []Choice {
	out := make([]Choice, 0, len(zones)+len(manualOffsets)+1)
	seen := map[string]bool{}
	add := func(label, value string) {
		if seen[value] {
			return
		}
		seen[value] = true
		out = append(out, Choice{Label: label, Value: value})
	}
	for _, z := range zones {
		add(strings.ReplaceAll(z, "_", " "), z)
	}
	for _, off := range manualOffsets {
		value := "UTC+" + off
		if strings.HasPrefix(off, "-") {
			value = "UTC" + off
		}
		add(value, value)
	}
	if current = strings.TrimSpace(current); current != "" && !seen[current] {
		out = append([]Choice{{Label: current, Value: current}}, out...)
	}
	return out
}

// VisibilityChoices lists the blog_public options a site may pick.
func VisibilityChoices(allowPrivate bool) []Choice {
	out := []Choice{
		{Label: "Public", Value: fmt.Sprint(VisibilityPublic)},
		{Label: "Hidden from search engines", Value: fmt.Sprint(VisibilityHidden)},
	}
	if allowPrivate {
		out = append(out, Choice{Label: "Private", Value: fmt.Sprint(VisibilityPrivate)})
	}
	return out
}

// VisibilityLabel returns the display text for a blog_public value.
func VisibilityLabel(v int64) string {
	switch v {
	case VisibilityPublic:
		return "Public"
	case VisibilityHidden:
		return "Hidden from search engines"
	case VisibilityPrivate:
		return "Private"
	default:
		return fmt.Sprintf("unknown (%d)", v)
	}
}
