package state

import (
	"fmt"
	"sync"
	"time"

	clone "github.com/huandu/go-clone"

	"github.com/five82/perch/internal/wpcom"
)

// Snapshot is the latest poll result available to the UI.
type Snapshot struct {
	Site     wpcom.Site
	HasSite  bool
	Settings wpcom.Settings
	// Sequence increases on every successful poll, so consumers can tell a
	// fresh arrival from a re-read of the same one.
	Sequence            uint64
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(site *wpcom.Site, settings wpcom.Settings, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if site != nil {
		s.snapshot.Site = *site
		s.snapshot.HasSite = true
	} else {
		s.snapshot.HasSite = false
	}
	s.snapshot.Settings = cloneSettings(settings)
	s.snapshot.Sequence++
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Settings = cloneSettings(s.snapshot.Settings)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Settings may hold nested JSON arrays and objects; readers get their own copy.
func cloneSettings(settings wpcom.Settings) wpcom.Settings {
	if len(settings) == 0 {
		return nil
	}
	return clone.Clone(settings).(wpcom.Settings)
}
