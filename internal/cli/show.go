package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/five82/perch/internal/app"
	"github.com/five82/perch/internal/form"
	"github.com/five82/perch/internal/settings"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

func openSession(ctx context.Context, flags *globalFlags) (*app.Session, error) {
	env, err := app.Resolve(flags.appOptions())
	if err != nil {
		return nil, err
	}
	return app.OpenSession(ctx, env.Client, env.Site, env.SessionOptions())
}

type showOutput struct {
	Site     showSite      `json:"site"`
	Locked   bool          `json:"locked,omitempty"`
	Warning  string        `json:"warning,omitempty"`
	Sections []string      `json:"sections"`
	Fields   []string      `json:"fields"`
	Settings form.FieldSet `json:"settings"`
}

type showSite struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Jetpack bool   `json:"jetpack"`
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the site's general settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			return writeText(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeJSON(w io.Writer, s *app.Session) error {
	layout := s.Layout()
	site := s.Site()
	out := showOutput{
		Site:     showSite{ID: site.ID, Name: site.Name, URL: site.URL, Jetpack: site.Jetpack},
		Locked:   layout.Locked,
		Warning:  layout.Warning,
		Fields:   layout.Fields(),
		Settings: s.Form().CurrentState(),
	}
	for _, sec := range layout.Sections {
		out.Sections = append(out.Sections, string(sec.ID))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, s *app.Session) error {
	layout := s.Layout()
	site := s.Site()

	fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(site.Name), site.URL)
	if layout.Locked {
		fmt.Fprintf(w, "\n%s\n", layout.Warning)
		if l := layout.WarningLink; l.URL != "" {
			fmt.Fprintf(w, "%s: %s\n", l.Label, l.URL)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, sec := range layout.Sections {
		fmt.Fprintf(tw, "\n%s\n", titleStyle.Render(sec.Title))
		for _, key := range sec.Fields {
			field, _ := settings.Schema().Lookup(key)
			v, _ := s.Form().Value(key)
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", field.Label, formatValue(key, v), key)
		}
		for _, l := range sec.Links {
			if !l.Disabled {
				fmt.Fprintf(tw, "  %s\t%s\t\n", l.Label, l.URL)
			}
		}
	}
	return tw.Flush()
}

func formatValue(key string, v form.Value) string {
	if v.IsBlank() {
		return "-"
	}
	switch key {
	case settings.KeyLangID:
		n, _ := v.Int()
		return settings.LanguageName(n)
	case settings.KeyBlogPublic:
		n, _ := v.Int()
		return settings.VisibilityLabel(n)
	}
	if s := v.Str(); strings.TrimSpace(s) != "" {
		return s
	}
	return `""`
}
