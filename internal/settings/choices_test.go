package settings

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestTimezoneChoices_KeepsUnknownCurrent(t *testing.T) {
	got := TimezoneChoices("Antarctica/Troll")
	if got[0].Value != "Antarctica/Troll" {
		t.Fatalf("first choice = %+v, want the stored zone", got[0])
	}

	plain := TimezoneChoices("Europe/Paris")
	if len(plain) != len(got)-1 {
		t.Fatalf("known zone should not be duplicated: %d vs %d", len(plain), len(got))
	}
}

func TestTimezoneChoices_ManualOffsets(t *testing.T) {
	var sawMinus, sawPlus bool
	for _, c := range TimezoneChoices("") {
		switch c.Value {
		case "UTC-5":
			sawMinus = true
		case "UTC+5.5":
			sawPlus = true
		}
	}
	if !sawMinus || !sawPlus {
		t.Fatalf("manual offsets missing: minus=%v plus=%v", sawMinus, sawPlus)
	}
}

func TestVisibilityChoices(t *testing.T) {
	if n := len(VisibilityChoices(false)); n != 2 {
		t.Fatalf("Jetpack visibility choices = %d, want 2", n)
	}
	withPrivate := VisibilityChoices(true)
	if last := withPrivate[len(withPrivate)-1]; last.Value != "-1" {
		t.Fatalf("private choice = %+v, want -1", last)
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName(1); got != "English" {
		t.Fatalf("LanguageName(1) = %q", got)
	}
	if got := LanguageName(9999); got != "language #9999" {
		t.Fatalf("LanguageName(9999) = %q", got)
	}
}

func TestTimezoneZonesAreValid(t *testing.T) {
	for _, z := range zones {
		if _, err := time.LoadLocation(z); err != nil {
			t.Errorf("zone %q: %v", z, err)
		}
	}
}
