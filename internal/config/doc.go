// Package config loads perch's TOML configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/perch/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// The PERCH_TOKEN environment variable always wins over the token key.
//
// # Default Values
//
//   - API base: https://public-api.wordpress.com
//   - Poll interval: 10 seconds
//   - Minimum Jetpack version: 3.4
//   - Log file: ~/.local/state/perch/perch.log
//
// # TOML Format
//
//	api_base = "https://public-api.wordpress.com"
//	site = "example.wordpress.com"
//	token = "..."
//	poll_seconds = 10
//	jetpack_min_version = "3.4"
//	log_file = "~/.local/state/perch/perch.log"  # "-" logs to stderr
//
//	[features]
//	"upgrades/domain-search" = true
//	"jetpack/sync-panel" = true
//	"manage/option_sync_non_public_post_stati" = true
//
// Every key is optional. Tilde expansion is performed for the log file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, TOML parse errors and a negative poll_seconds. A missing file
// is not an error.
package config
