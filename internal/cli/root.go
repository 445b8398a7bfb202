// Package cli wires the perch commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/perch/internal/app"
	"github.com/five82/perch/internal/config"
)

var version = "dev"

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

type globalFlags struct {
	configPath string
	site       string
	poll       int
	logFile    string
	logLevel   string
}

func (g *globalFlags) appOptions() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		Site:       g.site,
		PollEvery:  g.poll,
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	var closeLog func()

	root := &cobra.Command{
		Use:   "perch",
		Short: "Edit WordPress.com general site settings from the terminal",
		Long: `perch - a terminal editor for a site's general settings.

Without a subcommand perch opens the interactive form. Settings are polled in
the background; your unsaved edits are never overwritten by a refresh.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			logPath := flags.logFile
			if logPath == "" {
				cfg, err := config.Load(flags.configPath)
				if err != nil {
					return err
				}
				logPath = cfg.LogPath
			}
			c, err := setupLogging(logPath, flags.logLevel)
			if err != nil {
				return err
			}
			closeLog = c
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if closeLog != nil {
				closeLog()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.appOptions())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/perch/config.toml)")
	pf.StringVar(&flags.site, "site", "", "site slug or ID to manage")
	pf.IntVar(&flags.poll, "poll", 0, "poll interval in seconds (default from config)")
	pf.StringVar(&flags.logFile, "log-file", "", `log file, "-" for stderr (default from config)`)
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		newShowCmd(flags),
		newSetCmd(flags),
		newSchemaCmd(),
		newLogsCmd(flags),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "perch: %v\n", err)
		stop()
		os.Exit(1)
	}
}
