// Package app is the composition root for perch.
//
// # Overview
//
// It wires configuration, the WordPress.com client, the background poller,
// the shared state.Store and the TUI. The CLI subcommands reuse Resolve and
// Session so that scripted edits follow the same save protocol as the TUI.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> Resolve()          config, prefs, site, client
//	       ├─────> StartPoller()      background FetchSite + FetchSettings
//	       ├─────> prefs.Update()     remember the site
//	       └─────> ui.Run()           Bubble Tea program (blocks)
//
//	Poller loop:
//	┌─────────────────────────────────────────┐
//	│  ├─> FetchSite()                        │
//	│  ├─> FetchSettings()                    │
//	│  ├─> store.Update()                     │
//	│  └─> wait calculateBackoff(failures)    │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The first poll happens immediately. After that the poller waits the
// configured interval, doubling it for each consecutive failure up to 30
// seconds. Failures are logged and recorded in the store; the previous
// settings stay available to the UI.
//
// # Sessions
//
// Session is the non-interactive path:
//
//	s, err := app.OpenSession(ctx, client, "example.blog", env.SessionOptions())
//	err = s.Set("blogname", "New name")
//	saved, err := s.Save(ctx)
//
// OpenSession initializes a form with defaults and applies one snapshot.
// Set refuses fields the site's layout hides and every field on a locked
// site. Save submits the whole form and reconciles the server's reply.
//
// # Error Handling
//
// Fatal (returned from Run): config parse errors, no site, client init.
// Recoverable: poll failures (logged, retried with backoff) and save
// failures (reported by the UI, edits kept).
package app
