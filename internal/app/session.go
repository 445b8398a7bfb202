package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/five82/perch/internal/form"
	"github.com/five82/perch/internal/settings"
	"github.com/five82/perch/internal/wpcom"
)

var (
	// ErrLocked is returned when the site's Jetpack is too old to edit settings.
	ErrLocked = errors.New("settings are locked")
	// ErrFieldUnavailable is returned for fields the site's layout does not show.
	ErrFieldUnavailable = errors.New("field not available for this site")
)

// SessionOptions shape the layout a Session enforces.
type SessionOptions struct {
	Features          settings.Features
	JetpackMinVersion string
	Now               func() time.Time
}

// Session drives one site's settings form without a terminal UI: the same
// form store and save protocol the TUI uses, called in sequence.
type Session struct {
	api  wpcom.SettingsAPI
	site wpcom.Site
	form *form.Store
	opts SessionOptions
}

// OpenSession fetches the site and its settings and reconciles them into a
// fresh form.
func OpenSession(ctx context.Context, api wpcom.SettingsAPI, site string, opts SessionOptions) (*Session, error) {
	record, err := api.FetchSite(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("fetch site: %w", err)
	}
	raw, err := api.FetchSettings(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	store := form.NewStore(settings.Schema())
	store.Initialize(settings.Defaults())
	store.ApplySnapshot(settings.FromRaw(raw))

	return &Session{api: api, site: *record, form: store, opts: opts}, nil
}

// Site returns the site record fetched when the session opened.
func (s *Session) Site() wpcom.Site { return s.site }

// Form exposes the underlying form store.
func (s *Session) Form() *form.Store { return s.form }

// Layout returns the sections the site currently shows.
func (s *Session) Layout() settings.Layout {
	return settings.BuildLayout(settings.Env{
		Site:              s.site,
		Features:          s.opts.Features,
		JetpackMinVersion: s.opts.JetpackMinVersion,
		Now:               s.opts.Now(),
	}, s.form)
}

// Set records an edit. Only fields the layout shows may be edited, and a
// value equal to the stored one after coercion is not an edit.
func (s *Session) Set(key string, raw any) error {
	layout := s.Layout()
	if layout.Locked {
		return fmt.Errorf("%w: %s", ErrLocked, layout.Warning)
	}
	if !slices.Contains(layout.Fields(), key) {
		if _, known := settings.Schema().Lookup(key); !known {
			return &form.FieldError{Key: key, Err: form.ErrUnknownField}
		}
		return &form.FieldError{Key: key, Err: ErrFieldUnavailable}
	}
	if s.form.Matches(key, raw) {
		return nil
	}
	return s.form.SetField(key, raw)
}

// Save submits the full form. On success the dirty marks are cleared and the
// values the server reports as updated are reconciled back in.
func (s *Session) Save(ctx context.Context) ([]string, error) {
	fields, err := s.form.BeginSave()
	if err != nil {
		return nil, err
	}
	dirty := s.form.DirtyKeys()
	updated, err := s.api.SaveSettings(ctx, s.site.ID, fields)
	if err != nil {
		return nil, s.form.OnSaveFailed(fmt.Errorf("save settings: %w", err))
	}
	s.form.OnSaveSucceeded()
	s.form.ApplySnapshot(settings.FromRaw(updated))
	slog.Info("settings saved", "site_id", s.site.ID, "keys", dirty)
	return dirty, nil
}
