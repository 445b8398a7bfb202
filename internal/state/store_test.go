package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/perch/internal/wpcom"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	site := &wpcom.Site{ID: 123, Name: "Example"}
	settings := wpcom.Settings{"blogname": "Example", "blog_public": 1}

	before := time.Now()
	s.Update(site, settings, nil)

	snap := s.Snapshot()
	if !snap.HasSite || snap.Site.ID != 123 {
		t.Fatalf("snapshot site = %#v, want id=123 HasSite=true", snap.Site)
	}
	if len(snap.Settings) != 2 || snap.Settings["blogname"] != "Example" {
		t.Fatalf("snapshot settings = %#v, want 2 entries", snap.Settings)
	}
	if snap.Sequence != 1 {
		t.Fatalf("Sequence = %d, want 1", snap.Sequence)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Settings["blogname"] = "Mutated"
	settings["blogname"] = "Mutated too"
	snap2 := s.Snapshot()
	if snap2.Settings["blogname"] != "Example" {
		t.Fatalf("Snapshot should clone settings; got %v", snap2.Settings["blogname"])
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(&wpcom.Site{ID: 1}, wpcom.Settings{"blogname": "x"}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, nil, origErr)

	snap := s.Snapshot()
	if snap.HasSite != prev.HasSite || snap.Site.ID != prev.Site.ID {
		t.Fatalf("site changed on error: got %#v want %#v", snap.Site, prev.Site)
	}
	if snap.Settings["blogname"] != "x" {
		t.Fatalf("settings changed on error: got %#v want %#v", snap.Settings, prev.Settings)
	}
	if snap.Sequence != prev.Sequence {
		t.Fatalf("Sequence = %d, want unchanged %d", snap.Sequence, prev.Sequence)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_SequenceAdvancesPerSuccess(t *testing.T) {
	var s Store
	s.Update(nil, nil, nil)
	s.Update(nil, nil, errors.New("fail"))
	s.Update(nil, wpcom.Settings{"a": "b"}, nil)
	if got := s.Snapshot().Sequence; got != 2 {
		t.Fatalf("Sequence = %d, want 2", got)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, nil, errors.New("fail 1"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 1 failure")
	}

	s.Update(nil, nil, errors.New("fail 2"))
	snap = s.Snapshot()
	if !snap.IsOffline() {
		t.Fatal("IsOffline() = false, want true with 2 failures")
	}

	s.Update(&wpcom.Site{ID: 1}, nil, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false after success")
	}
}

func TestStore_SnapshotCopiesNestedValues(t *testing.T) {
	var s Store
	s.Update(&wpcom.Site{ID: 1}, wpcom.Settings{
		"jetpack_relatedposts_options": map[string]any{"enabled": true},
		"tags":                         []any{"a", "b"},
	}, nil)

	snap := s.Snapshot()
	snap.Settings["jetpack_relatedposts_options"].(map[string]any)["enabled"] = false
	snap.Settings["tags"].([]any)[0] = "z"

	again := s.Snapshot()
	if again.Settings["jetpack_relatedposts_options"].(map[string]any)["enabled"] != true {
		t.Fatal("nested map shared between snapshots")
	}
	if again.Settings["tags"].([]any)[0] != "a" {
		t.Fatal("nested slice shared between snapshots")
	}
}
