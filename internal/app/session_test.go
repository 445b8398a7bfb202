package app

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/five82/perch/internal/config"
	"github.com/five82/perch/internal/form"
	"github.com/five82/perch/internal/settings"
	"github.com/five82/perch/internal/wpcom"
)

type fakeAPI struct {
	mu          sync.Mutex
	site        *wpcom.Site
	settings    wpcom.Settings
	siteErr     error
	settingsErr error
	saveErr     error
	updated     wpcom.Settings

	fetchedSite string
	saved       []form.FieldSet
}

func (f *fakeAPI) FetchSite(_ context.Context, site string) (*wpcom.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchedSite = site
	if f.siteErr != nil {
		return nil, f.siteErr
	}
	s := *f.site
	return &s, nil
}

func (f *fakeAPI) FetchSettings(context.Context, string) (wpcom.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeAPI) SaveSettings(_ context.Context, _ int64, fields form.FieldSet) (wpcom.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, fields)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.updated, nil
}

var summer = func() time.Time { return time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC) }

func hostedAPI() *fakeAPI {
	return &fakeAPI{
		site: &wpcom.Site{ID: 42, URL: "https://example.blog"},
		settings: wpcom.Settings{
			"blogname":        "Example",
			"blogdescription": "Just another site",
			"blog_public":     float64(1),
			"timezone_string": "",
			"gmt_offset":      "-5",
		},
	}
}

func TestOpenSession_ReconcilesSnapshot(t *testing.T) {
	s, err := OpenSession(context.Background(), hostedAPI(), "example.blog", SessionOptions{Now: summer})
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	if v, _ := s.Form().Value(settings.KeyBlogname); v != form.StringValue("Example") {
		t.Fatalf("blogname = %v", v)
	}
	if v, _ := s.Form().Value(settings.KeyTimezoneString); v != form.StringValue("UTC-5") {
		t.Fatalf("timezone = %v, want legacy UTC-5", v)
	}
	if s.Form().Dirty() {
		t.Fatal("fresh session should be clean")
	}
}

func TestOpenSession_FetchErrors(t *testing.T) {
	api := hostedAPI()
	api.siteErr = errors.New("down")
	if _, err := OpenSession(context.Background(), api, "x", SessionOptions{}); err == nil {
		t.Fatal("OpenSession returned nil error on site failure")
	}
}

func TestSession_SetAndSave(t *testing.T) {
	api := hostedAPI()
	api.updated = wpcom.Settings{"blogname": "Renamed"}
	s, err := OpenSession(context.Background(), api, "example.blog", SessionOptions{Now: summer})
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}

	if err := s.Set(settings.KeyBlogname, "Renamed"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	saved, err := s.Save(context.Background())
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !slices.Equal(saved, []string{settings.KeyBlogname}) {
		t.Fatalf("saved keys = %v", saved)
	}
	if len(api.saved) != 1 {
		t.Fatalf("SaveSettings called %d times", len(api.saved))
	}
	sent := api.saved[0]
	if sent[settings.KeyBlogname] != form.StringValue("Renamed") || sent[settings.KeyBlogdescription] != form.StringValue("Just another site") {
		t.Fatalf("save payload should carry the full form, got %v", sent)
	}
	if s.Form().Dirty() || s.Form().Saving() {
		t.Fatalf("dirty=%v saving=%v after success", s.Form().Dirty(), s.Form().Saving())
	}
}

func TestSession_SaveFailureKeepsEdits(t *testing.T) {
	api := hostedAPI()
	api.saveErr = errors.New("nope")
	s, err := OpenSession(context.Background(), api, "example.blog", SessionOptions{Now: summer})
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	_ = s.Set(settings.KeyBlogdescription, "Tagline")
	if _, err := s.Save(context.Background()); !errors.Is(err, api.saveErr) {
		t.Fatalf("Save error = %v, want wrapped nope", err)
	}
	if !s.Form().IsDirty(settings.KeyBlogdescription) || s.Form().Saving() {
		t.Fatal("failed save must keep the edit dirty and end the save")
	}
}

func TestSession_SetRejectsHiddenAndUnknownFields(t *testing.T) {
	s, err := OpenSession(context.Background(), hostedAPI(), "example.blog", SessionOptions{Now: summer})
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	if err := s.Set(settings.KeySyncNonPublicPostStat, true); !errors.Is(err, ErrFieldUnavailable) {
		t.Fatalf("Set(jetpack field) = %v, want ErrFieldUnavailable", err)
	}
	if err := s.Set("nope", "x"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("Set(unknown) = %v, want ErrUnknownField", err)
	}
}

func TestSession_LockedJetpack(t *testing.T) {
	api := &fakeAPI{
		site:     &wpcom.Site{ID: 3, Jetpack: true, Options: wpcom.SiteOptions{JetpackVersion: "3.0"}},
		settings: wpcom.Settings{"blogname": "Old"},
	}
	s, err := OpenSession(context.Background(), api, "old.example", SessionOptions{
		Features:          config.Features{},
		JetpackMinVersion: "3.4",
		Now:               summer,
	})
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	if err := s.Set(settings.KeyBlogname, "New"); !errors.Is(err, ErrLocked) {
		t.Fatalf("Set on locked site = %v, want ErrLocked", err)
	}
}
