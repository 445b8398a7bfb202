package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/perch/internal/config"
	"github.com/five82/perch/internal/logtail"
)

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var (
		lines  int
		level  string
		follow bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the perch log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var threshold slog.Level
			if err := threshold.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
				return fmt.Errorf("log level %q: %w", level, err)
			}
			path := flags.logFile
			if path == "" {
				cfg, err := config.Load(flags.configPath)
				if err != nil {
					return err
				}
				path = cfg.LogPath
			}
			if path == "-" {
				return fmt.Errorf("logging to stderr; no log file to read")
			}
			out, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, line := range logtail.Filter(out, threshold) {
				fmt.Fprintln(w, line)
			}
			if !follow {
				return nil
			}

			keep := true
			return logtail.Follow(cmd.Context(), path, func(line string) {
				if lvl, ok := logtail.LineLevel(line); ok {
					keep = lvl >= threshold
				}
				if keep {
					fmt.Fprintln(w, line)
				}
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of lines to read, 0 for all")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing new lines")
	return cmd
}
