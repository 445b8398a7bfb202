package settings

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Document is the settings payload as submitted to the API. It exists to
// describe the wire shape; the form itself works on form.FieldSet.
type Document struct {
	Blogname              *string `json:"blogname,omitempty" jsonschema:"title=Site Title"`
	Blogdescription       *string `json:"blogdescription,omitempty" jsonschema:"title=Site Tagline"`
	LangID                *int64  `json:"lang_id,omitempty" jsonschema:"title=Language"`
	TimezoneString        *string `json:"timezone_string,omitempty" jsonschema:"title=Site Timezone,example=Europe/London,example=UTC+5"`
	BlogPublic            *int64  `json:"blog_public,omitempty" jsonschema:"title=Visibility,enum=-1,enum=0,enum=1"`
	AdminURL              *string `json:"admin_url,omitempty" jsonschema:"readOnly=true"`
	RelatedPostsAllowed   *bool   `json:"jetpack_relatedposts_allowed,omitempty" jsonschema:"readOnly=true"`
	RelatedPostsEnabled   *int64  `json:"jetpack_relatedposts_enabled,omitempty" jsonschema:"enum=0,enum=1"`
	RelatedPostsHeadline  *bool   `json:"jetpack_relatedposts_show_headline,omitempty"`
	RelatedPostsThumbs    *bool   `json:"jetpack_relatedposts_show_thumbnails,omitempty"`
	SyncNonPublicPostStat *bool   `json:"jetpack_sync_non_public_post_stati,omitempty"`
	HolidaySnow           *bool   `json:"holidaysnow,omitempty" jsonschema:"title=Holiday Snow"`
	AMPSupported          *bool   `json:"amp_is_supported,omitempty" jsonschema:"readOnly=true"`
	AMPEnabled            *bool   `json:"amp_is_enabled,omitempty" jsonschema:"title=Enable AMP"`
}

// JSONSchema returns an indented JSON Schema for Document.
func JSONSchema() ([]byte, error) {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	s := r.Reflect(&Document{})
	s.Title = "General site settings"
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
