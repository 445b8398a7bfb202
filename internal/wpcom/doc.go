// Package wpcom provides an HTTP client for the WordPress.com site settings API.
//
// # Overview
//
// The client is both the settings source (FetchSite, FetchSettings) polled
// in the background and the settings sink (SaveSettings) that receives the
// full form state when the user saves.
//
// # Endpoints
//
//	GET  /rest/v1.1/sites/{site}            site identity, Jetpack version, plan
//	GET  /rest/v1.1/sites/{site}/settings   {"ID": ..., "settings": {...}}
//	POST /rest/v1.1/sites/{id}/settings     body: settings object, reply {"updated": {...}}
//
// Requests carry a bearer token when one is configured and are throttled by
// a client-side token bucket so a tight poll interval cannot hammer the API.
// Error responses decode into *APIError.
//
// # Usage
//
//	client, err := wpcom.NewClient("", token)
//	if err != nil {
//		return err
//	}
//	site, err := client.FetchSite(ctx, "example.wordpress.com")
//	raw, err := client.FetchSettings(ctx, "example.wordpress.com")
//
// # Versions
//
// Jetpack versions are compared with PHP version_compare ordering via
// CompareVersions and Site.VersionCompare, so pre-release tags sort before
// the release they precede.
package wpcom
