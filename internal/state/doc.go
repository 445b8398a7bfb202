// Package state provides the thread-safe handoff between the settings poller
// and the UI.
//
// # Overview
//
// The poller fetches the site record and its raw settings on an interval and
// publishes each result here. The UI reads snapshots on its own schedule and
// feeds fresh ones into its form store. The Store is the only shared mutable
// value between the two goroutines.
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ FetchSite()    │            │                 │
//	│ FetchSettings()│            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  repeat...     │            │  ApplySnapshot  │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
//	// Success: replace site and settings, advance Sequence
//	store.Update(site, settings, nil)
//
//	// Error: keep old data, record error, count the failure
//	store.Update(nil, nil, err)
//
// Sequence increases only on success. The UI remembers the last sequence it
// applied, so re-reading an unchanged snapshot never reaches the form store
// twice. Even if it did, reconciliation is idempotent.
//
// # Copying
//
// Update and Snapshot both clone the settings map. Values inside it are JSON
// primitives decoded with UseNumber, so a shallow clone is a full copy.
//
// # Zero Value
//
// A zero Store is ready to use. Snapshot on a fresh store returns a zero
// Snapshot with HasSite false and Sequence 0.
package state
