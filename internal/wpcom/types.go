package wpcom

import (
	"fmt"
	"net/url"
	"strings"
)

// Settings is the raw settings object returned by /sites/{site}/settings.
// Values keep their JSON shape (numbers decode as json.Number).
type Settings map[string]any

type settingsResponse struct {
	ID       int64    `json:"ID"`
	Settings Settings `json:"settings"`
}

type saveResponse struct {
	Updated Settings `json:"updated"`
}

// Site mirrors the subset of /sites/{site} perch uses.
type Site struct {
	ID      int64       `json:"ID"`
	Name    string      `json:"name"`
	URL     string      `json:"URL"`
	Jetpack bool        `json:"jetpack"`
	Options SiteOptions `json:"options"`
	Plan    SitePlan    `json:"plan"`
}

// SiteOptions carries per-site metadata.
type SiteOptions struct {
	AdminURL       string `json:"admin_url"`
	JetpackVersion string `json:"jetpack_version"`
	UnmappedURL    string `json:"unmapped_url"`
}

// SitePlan identifies the site's plan.
type SitePlan struct {
	ProductSlug string `json:"product_slug"`
	ShortName   string `json:"product_name_short"`
}

// Domain returns the host part of the site URL.
func (s Site) Domain() string {
	u, err := url.Parse(s.URL)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(strings.TrimPrefix(s.URL, "https://"), "http://")
	}
	return u.Host
}

// Slug returns the site address in dashboard form: host plus path with
// slashes replaced by "::".
func (s Site) Slug() string {
	u, err := url.Parse(s.URL)
	if err != nil || u.Host == "" {
		return s.Domain()
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return u.Host
	}
	return u.Host + "::" + strings.ReplaceAll(path, "/", "::")
}

// VersionCompare compares the site's Jetpack version against version with
// op (one of <, <=, >, >=, ==, !=). Non-Jetpack sites always return false.
func (s Site) VersionCompare(version, op string) bool {
	if !s.Jetpack {
		return false
	}
	c := CompareVersions(s.Options.JetpackVersion, version)
	switch op {
	case "<", "lt":
		return c < 0
	case "<=", "le":
		return c <= 0
	case ">", "gt":
		return c > 0
	case ">=", "ge":
		return c >= 0
	case "==", "eq":
		return c == 0
	case "!=", "ne":
		return c != 0
	}
	return false
}

// HasMinimumJetpackVersion reports whether the site is manageable given the
// minimum Jetpack version. Non-Jetpack sites always qualify.
func (s Site) HasMinimumJetpackVersion(min string) bool {
	if !s.Jetpack || strings.TrimSpace(min) == "" {
		return true
	}
	return CompareVersions(s.Options.JetpackVersion, min) >= 0
}

// IsBusiness reports whether the site is on a Business (or higher) plan.
func (s Site) IsBusiness() bool {
	slug := strings.ToLower(s.Plan.ProductSlug)
	return strings.Contains(slug, "business") || strings.Contains(slug, "ecommerce")
}

// DashboardURL returns an absolute dashboard URL for path, e.g.
// "/customize/amp/" + slug.
func DashboardURL(path string) string {
	return "https://wordpress.com" + path
}

// APIError is returned for 4xx/5xx responses.
type APIError struct {
	Status  int    `json:"-"`
	Path    string `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}
