package settings

import (
	"fmt"
	"time"

	"github.com/five82/perch/internal/form"
	"github.com/five82/perch/internal/wpcom"
)

// Feature flag names consulted when laying out the form.
const (
	FeatureDomainSearch        = "upgrades/domain-search"
	FeatureJetpackSyncPanel    = "jetpack/sync-panel"
	FeatureSyncNonPublicStatus = "manage/option_sync_non_public_post_stati"
	FeatureMeAccount           = "me/account"
)

// SectionID names a block of the form.
type SectionID string

const (
	SectionProfile      SectionID = "profile"
	SectionAddress      SectionID = "address"
	SectionLanguage     SectionID = "language"
	SectionTimezone     SectionID = "timezone"
	SectionHolidaySnow  SectionID = "holiday-snow"
	SectionVisibility   SectionID = "visibility"
	SectionAMP          SectionID = "amp"
	SectionFooterCredit SectionID = "footer-credit"
	SectionRelatedPosts SectionID = "related-posts"
	SectionJetpack      SectionID = "jetpack"
	SectionJetpackSync  SectionID = "jetpack-sync"
)

// Features answers feature flag lookups.
type Features interface {
	Enabled(name string) bool
}

// Values reads current form values; *form.Store and form.FieldSet both qualify.
type Values interface {
	Value(key string) (form.Value, bool)
}

// Env is everything besides field values that decides the layout.
type Env struct {
	Site              wpcom.Site
	Features          Features
	JetpackMinVersion string
	Now               time.Time
}

// Link is a navigation target shown alongside a section.
type Link struct {
	Label    string
	URL      string
	Disabled bool
}

// Section is one visible block of the form.
type Section struct {
	ID     SectionID
	Title  string
	Fields []string
	// Inactive fields are shown but greyed out.
	Inactive []string
	Links    []Link
	Notes    []string
}

// Layout is the visible form for a site.
type Layout struct {
	Sections []Section
	// Locked is set when the site cannot be managed at all.
	Locked  bool
	Warning string
	// WarningLink points at the fix for Warning.
	WarningLink  Link
	AllowPrivate bool
}

// Fields returns every editable field in display order.
func (l Layout) Fields() []string {
	var out []string
	for _, s := range l.Sections {
		out = append(out, s.Fields...)
	}
	return out
}

// Has reports whether the layout contains id.
func (l Layout) Has(id SectionID) bool {
	for _, s := range l.Sections {
		if s.ID == id {
			return true
		}
	}
	return false
}

// BuildLayout decides which sections a site sees.
func BuildLayout(env Env, values Values) Layout {
	site := env.Site
	slug := site.Slug()
	enabled := func(name string) bool { return env.Features != nil && env.Features.Enabled(name) }

	if site.Jetpack && !site.HasMinimumJetpackVersion(env.JetpackMinVersion) {
		return Layout{
			Locked:  true,
			Warning: fmt.Sprintf("Jetpack %s is required to manage Settings", env.JetpackMinVersion),
			WarningLink: Link{
				Label: "Update now",
				URL:   site.Options.AdminURL + "plugins.php?plugin_status=upgrade",
			},
			Sections: []Section{jetpackSection(site, false, false)},
		}
	}

	l := Layout{AllowPrivate: !site.Jetpack}

	l.Sections = append(l.Sections, Section{
		ID:     SectionProfile,
		Title:  "Site Profile",
		Fields: []string{KeyBlogname, KeyBlogdescription},
		Notes:  []string{"In a few words, explain what this site is about."},
	})

	if !site.Jetpack {
		addr := Section{ID: SectionAddress, Title: "Site Address", Notes: []string{site.Domain()}}
		if enabled(FeatureDomainSearch) {
			addr.Links = []Link{
				{Label: "Add a Custom Address", URL: wpcom.DashboardURL("/domains/add/" + slug)},
				{Label: "Map a domain you already own", URL: wpcom.DashboardURL("/domains/add/mapping/" + slug)},
				{Label: "Redirect this site", URL: wpcom.DashboardURL("/domains/add/site-redirect/" + slug)},
			}
		}
		l.Sections = append(l.Sections, addr)

		accountPath := "/settings/account/"
		if enabled(FeatureMeAccount) {
			accountPath = "/me/account"
		}
		l.Sections = append(l.Sections,
			Section{
				ID:     SectionLanguage,
				Title:  "Language",
				Fields: []string{KeyLangID},
				Notes:  []string{"Language this blog is primarily written in."},
				Links:  []Link{{Label: "You can also modify the interface language in your profile.", URL: wpcom.DashboardURL(accountPath)}},
			},
			Section{
				ID:     SectionTimezone,
				Title:  "Site Timezone",
				Fields: []string{KeyTimezoneString},
				Notes:  []string{"Choose a city in your timezone."},
			},
		)
	}

	if showHolidaySnow(site, env.Now) {
		l.Sections = append(l.Sections, Section{
			ID:     SectionHolidaySnow,
			Title:  "Holiday Snow",
			Fields: []string{KeyHolidaySnow},
			Notes:  []string{"Show falling snow on my blog until January 4th."},
		})
	}

	l.Sections = append(l.Sections, Section{
		ID:     SectionVisibility,
		Title:  "Privacy",
		Fields: []string{KeyBlogPublic},
	})

	if !site.Jetpack && truthyValue(values, KeyAMPSupported) {
		l.Sections = append(l.Sections, Section{
			ID:     SectionAMP,
			Title:  "AMP",
			Fields: []string{KeyAMPEnabled},
			Notes:  []string{"Your WordPress.com site supports the use of Accelerated Mobile Pages."},
			Links: []Link{{
				Label:    "Edit Design",
				URL:      wpcom.DashboardURL("/customize/amp/" + slug),
				Disabled: !truthyValue(values, KeyAMPEnabled),
			}},
		})
	}

	if !site.Jetpack {
		footer := Section{
			ID:    SectionFooterCredit,
			Title: "Footer Credit",
			Notes: []string{"You can customize your website by changing the footer credit in customizer."},
			Links: []Link{{Label: "Change footer credit", URL: wpcom.DashboardURL("/customize/identity/" + slug)}},
		}
		if !site.IsBusiness() {
			footer.Notes = append(footer.Notes, "Remove the footer credit entirely with WordPress.com Business.")
		}
		l.Sections = append(l.Sections, footer)
	}

	if truthyValue(values, KeyRelatedPostsAllowed) {
		rp := Section{
			ID:     SectionRelatedPosts,
			Title:  "Related Posts",
			Fields: []string{KeyRelatedPostsEnabled, KeyRelatedPostsHeadline, KeyRelatedPostsThumbs},
		}
		if !truthyValue(values, KeyRelatedPostsEnabled) {
			rp.Inactive = []string{KeyRelatedPostsHeadline, KeyRelatedPostsThumbs}
		}
		l.Sections = append(l.Sections, rp)
	}

	if site.Jetpack {
		syncPanel := enabled(FeatureJetpackSyncPanel) && !site.VersionCompare("4.2-alpha", "<")
		nonPublic := enabled(FeatureSyncNonPublicStatus) && !site.VersionCompare("4.1.1", ">")
		l.Sections = append(l.Sections, jetpackSection(site, syncPanel, nonPublic))
	}

	return l
}

func jetpackSection(site wpcom.Site, syncPanel, nonPublic bool) Section {
	s := Section{
		ID:    SectionJetpack,
		Title: "Jetpack",
		Links: []Link{
			{Label: "Disconnect Site", URL: wpcom.DashboardURL("/settings/disconnect-site/" + site.Slug())},
			{Label: "View Jetpack Monitor Settings", URL: wpcom.DashboardURL("/settings/security/" + site.Slug())},
			{Label: "Migrate followers from another WordPress.com blog", URL: fmt.Sprintf("https://wordpress.com/manage/%d", site.ID)},
		},
	}
	if syncPanel {
		s.Notes = append(s.Notes, "Jetpack Sync keeps your site in sync with WordPress.com. A full sync can be started from the web dashboard.")
	}
	if nonPublic {
		s.Fields = []string{KeySyncNonPublicPostStat}
		s.Notes = append(s.Notes, "(e.g. drafts, scheduled, private, etc…)")
	}
	return s
}

// showHolidaySnow hides the option for old Jetpack sites and between
// January 5th and November 30th.
func showHolidaySnow(site wpcom.Site, now time.Time) bool {
	if site.Jetpack && site.VersionCompare("4.0", "<") {
		return false
	}
	if now.IsZero() {
		now = time.Now()
	}
	m, d := now.Month(), now.Day()
	return m == time.December || (m == time.January && d <= 4)
}

func truthyValue(values Values, key string) bool {
	if values == nil {
		return false
	}
	v, ok := values.Value(key)
	return ok && v.Truthy()
}
