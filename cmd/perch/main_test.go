package main

import "testing"

func TestEffectiveVersionPrefersInjected(t *testing.T) {
	if got := effectiveVersion("v0.3.0"); got != "v0.3.0" {
		t.Fatalf("effectiveVersion = %q", got)
	}
}

func TestEffectiveVersionDevNotEmpty(t *testing.T) {
	if got := effectiveVersion("dev"); got == "" {
		t.Fatal("effectiveVersion returned empty string")
	}
}
