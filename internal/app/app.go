package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/perch/internal/config"
	"github.com/five82/perch/internal/prefs"
	"github.com/five82/perch/internal/state"
	"github.com/five82/perch/internal/ui"
	"github.com/five82/perch/internal/wpcom"
)

// ErrNoSite is returned when no site was named anywhere.
var ErrNoSite = errors.New("no site configured: pass --site or set site in config.toml")

// Options configure the perch application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/perch/prefs.toml
	Site       string // overrides config and the last opened site
	PollEvery  int    // seconds; zero uses config
}

// Environment is the resolved configuration shared by the TUI and the CLI
// subcommands.
type Environment struct {
	Config config.Config
	Prefs  prefs.Prefs
	Site   string
	Client *wpcom.Client
}

// Resolve loads config and prefs, picks the site and builds the API client.
func Resolve(opts Options) (*Environment, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	site := firstNonEmpty(opts.Site, cfg.Site, userPrefs.LastSite)
	if site == "" {
		return nil, ErrNoSite
	}

	client, err := wpcom.NewClient(cfg.APIBase, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &Environment{Config: cfg, Prefs: userPrefs, Site: site, Client: client}, nil
}

// SessionOptions returns the layout inputs taken from config.
func (e *Environment) SessionOptions() SessionOptions {
	return SessionOptions{
		Features:          e.Config.Features,
		JetpackMinVersion: e.Config.JetpackMinVersion,
	}
}

// Run boots the perch TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Resolve(opts)
	if err != nil {
		return err
	}

	store := &state.Store{}
	StartPoller(ctx, store, env.Client, env.Site, env.Config.PollInterval)

	if env.Site != env.Prefs.LastSite {
		if err := prefs.Update(opts.PrefsPath, func(p *prefs.Prefs) { p.LastSite = env.Site }); err != nil {
			slog.Debug("remember site failed", "error", err)
		}
	}

	slog.Info("perch starting", "site", env.Site, "poll", env.Config.PollInterval)

	return ui.Run(ui.Options{
		Context:           ctx,
		API:               env.Client,
		Store:             store,
		Features:          env.Config.Features,
		JetpackMinVersion: env.Config.JetpackMinVersion,
		Refresh: func(ctx context.Context) error {
			return refresh(ctx, store, env.Client, env.Site)
		},
		ThemeName: env.Prefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
