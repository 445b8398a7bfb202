// Package ui is the terminal front end for editing a site's general settings.
//
// The UI is a single Bubble Tea model. A tick reads the latest snapshot from
// the shared state.Store; snapshots whose sequence has already been seen are
// ignored, and a snapshot for a different site re-initializes the form before
// its settings are applied. Everything that touches the form.Store runs on the
// Bubble Tea event loop, so the store needs no locking.
//
// Saves run as commands. The result comes back as a message carrying the site
// it was made for; results for a site that is no longer mounted are dropped.
//
// Files:
//
//   - app.go: model, messages and commands
//   - input_handlers.go: key handling, editing and the save flow
//   - form_view.go: section and field rendering
//   - header.go: status bar, key hints and the notice line
//   - modal.go: huh based pickers and the unsaved changes guard
//   - tracking.go: navigation guard and analytics events
//   - theme.go, style_helpers.go: colors and background-safe rendering
package ui
