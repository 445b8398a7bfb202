package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type assignment struct {
	key, value string
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		out = append(out, assignment{key: k, value: v})
	}
	return out, nil
}

func newSetCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "set key=value...",
		Short: "Change settings and save them",
		Example: `  perch set blogname="My Site" blog_public=0
  perch set timezone_string=Europe/London --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := parseAssignments(args)
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			for _, e := range edits {
				if err := s.Set(e.key, e.value); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			dirty := s.Form().DirtyKeys()
			if len(dirty) == 0 {
				fmt.Fprintln(out, "Nothing to save.")
				return nil
			}
			if dryRun {
				for _, k := range dirty {
					v, _ := s.Form().Value(k)
					fmt.Fprintf(out, "%s = %s\n", k, v)
				}
				return nil
			}
			saved, err := s.Save(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s.\n", strings.Join(saved, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the changes without saving")
	return cmd
}
