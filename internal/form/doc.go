// Package form tracks editable form state against a remote source of truth.
//
// # Overview
//
// A Store holds the values shown in a settings form, the set of keys the
// user has edited since the last successful save (the dirty set), and
// whether a save is in flight. Server snapshots arrive whenever the poller
// delivers them; the store merges them without stomping on edits.
//
// # Reconciliation
//
//	for key, value in snapshot:
//	    if key not in dirty:
//	        values[key] = value
//
// Keys missing from a snapshot are left as they are. Snapshots carry no
// version, so the most recently applied one wins for clean keys even if it
// is older than one applied before it.
//
// # Save protocol
//
//	fields, err := store.BeginSave()   // full merged state, not just dirty keys
//	err = sink.SaveSettings(ctx, siteID, fields)
//	if err != nil {
//		store.OnSaveFailed(err)        // nothing is lost, user may retry
//	} else {
//		store.OnSaveSucceeded()        // clears persisted dirty keys
//	}
//
// Only one save may be in flight; BeginSave returns ErrSaveInProgress
// otherwise. A key edited again while its save is in flight stays dirty
// after the save succeeds, so the newer edit is neither lost nor overwritten
// by the next snapshot.
//
// # Values
//
// Values are typed by a Schema (string, bool or int). Loose input from JSON
// payloads or text inputs is coerced on the way in; unknown keys are
// rejected by SetField and skipped by ApplySnapshot.
//
// # Notifications
//
// Subscribe registers a callback invoked after every mutation. A Guard, if
// configured, hears MarkChanged when the form goes from clean to dirty and
// MarkSaved when it returns to clean.
//
// # Concurrency
//
// A Store belongs to one event loop (the Bubble Tea update loop, or a CLI
// command) and does no locking. Asynchronous work such as polling and
// saving happens elsewhere and reports back by calling ApplySnapshot,
// OnSaveSucceeded or OnSaveFailed on that loop.
package form
