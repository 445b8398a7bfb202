// Package settings defines the general site settings form: its fields, the
// defaults applied on mount, how a raw API payload becomes a form.FieldSet,
// and which sections a given site gets to see.
package settings

import (
	"github.com/five82/perch/internal/form"
)

// Field keys.
const (
	KeyBlogname              = "blogname"
	KeyBlogdescription       = "blogdescription"
	KeyLangID                = "lang_id"
	KeyBlogPublic            = "blog_public"
	KeyTimezoneString        = "timezone_string"
	KeyAdminURL              = "admin_url"
	KeyRelatedPostsAllowed   = "jetpack_relatedposts_allowed"
	KeyRelatedPostsEnabled   = "jetpack_relatedposts_enabled"
	KeyRelatedPostsHeadline  = "jetpack_relatedposts_show_headline"
	KeyRelatedPostsThumbs    = "jetpack_relatedposts_show_thumbnails"
	KeySyncNonPublicPostStat = "jetpack_sync_non_public_post_stati"
	KeyHolidaySnow           = "holidaysnow"
	KeyAMPSupported          = "amp_is_supported"
	KeyAMPEnabled            = "amp_is_enabled"

	// keyGMTOffset is read from raw payloads only; it never enters the form.
	keyGMTOffset = "gmt_offset"
)

// blog_public values.
const (
	VisibilityPrivate int64 = -1
	VisibilityHidden  int64 = 0
	VisibilityPublic  int64 = 1
)

var schema = form.NewSchema(
	form.Field{Key: KeyBlogname, Kind: form.KindString, Label: "Site Title"},
	form.Field{Key: KeyBlogdescription, Kind: form.KindString, Label: "Site Tagline"},
	form.Field{Key: KeyLangID, Kind: form.KindInt, Label: "Language"},
	form.Field{Key: KeyTimezoneString, Kind: form.KindString, Label: "Site Timezone"},
	form.Field{Key: KeyBlogPublic, Kind: form.KindInt, Label: "Visibility"},
	form.Field{Key: KeyAdminURL, Kind: form.KindString, Label: "Admin URL", ReadOnly: true},
	form.Field{Key: KeyRelatedPostsAllowed, Kind: form.KindBool, Label: "Related posts allowed", ReadOnly: true},
	form.Field{Key: KeyRelatedPostsEnabled, Kind: form.KindInt, Label: "Show related content after posts"},
	form.Field{Key: KeyRelatedPostsHeadline, Kind: form.KindBool, Label: "Show a \"Related\" header"},
	form.Field{Key: KeyRelatedPostsThumbs, Kind: form.KindBool, Label: "Use a large and visually striking layout"},
	form.Field{Key: KeySyncNonPublicPostStat, Kind: form.KindBool, Label: "Sync posts with non-public statuses"},
	form.Field{Key: KeyHolidaySnow, Kind: form.KindBool, Label: "Holiday Snow"},
	form.Field{Key: KeyAMPSupported, Kind: form.KindBool, Label: "AMP supported", ReadOnly: true},
	form.Field{Key: KeyAMPEnabled, Kind: form.KindBool, Label: "Enable AMP"},
)

// Schema returns the general settings schema.
func Schema() form.Schema { return schema }

// Defaults returns the blank form applied when a site is first shown.
func Defaults() form.FieldSet {
	return form.FieldSet{
		KeyBlogname:              form.StringValue(""),
		KeyBlogdescription:       form.StringValue(""),
		KeyLangID:                {},
		KeyTimezoneString:        form.StringValue(""),
		KeyBlogPublic:            {},
		KeyAdminURL:              form.StringValue(""),
		KeyRelatedPostsAllowed:   form.BoolValue(false),
		KeyRelatedPostsEnabled:   form.IntValue(0),
		KeyRelatedPostsHeadline:  form.BoolValue(false),
		KeyRelatedPostsThumbs:    form.BoolValue(false),
		KeySyncNonPublicPostStat: form.BoolValue(false),
		KeyHolidaySnow:           form.BoolValue(false),
		KeyAMPSupported:          form.BoolValue(false),
		KeyAMPEnabled:            form.BoolValue(false),
	}
}
