package settings

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/five82/perch/internal/form"
)

// keys copied straight from the payload when present
var baseKeys = []string{
	KeyBlogname,
	KeyBlogdescription,
	KeyLangID,
	KeyBlogPublic,
	KeyTimezoneString,
	KeyRelatedPostsAllowed,
	KeySyncNonPublicPostStat,
	KeyAMPSupported,
	KeyAMPEnabled,
}

// FromRaw derives the form fields from a raw settings payload.
//
// The related-posts fields are only included when the payload says related
// posts are allowed, and holidaysnow only when it is on; otherwise the keys
// are left out entirely so they never overwrite anything. A site without a
// timezone_string but with a string gmt_offset gets a synthesized
// "UTC+N" / "UTC-N" zone. Values that do not fit the schema are dropped.
func FromRaw(raw map[string]any) form.FieldSet {
	if raw == nil {
		return form.FieldSet{}
	}
	out := form.FieldSet{}
	put := func(key string, v any) {
		val, err := schema.Coerce(key, v)
		if err != nil {
			slog.Debug("settings field dropped", "key", key, "error", err)
			return
		}
		out[key] = val
	}

	for _, key := range baseKeys {
		if v, ok := raw[key]; ok {
			put(key, v)
		}
	}

	if truthy(raw[KeyRelatedPostsAllowed]) {
		enabled := int64(0)
		if truthy(raw[KeyRelatedPostsEnabled]) {
			enabled = 1
		}
		out[KeyRelatedPostsEnabled] = form.IntValue(enabled)
		for _, key := range []string{KeyRelatedPostsHeadline, KeyRelatedPostsThumbs} {
			if v, ok := raw[key]; ok {
				put(key, v)
			}
		}
	}

	if truthy(raw[KeyHolidaySnow]) {
		put(KeyHolidaySnow, raw[KeyHolidaySnow])
	}

	if tz, ok := legacyTimezone(raw); ok {
		out[KeyTimezoneString] = form.StringValue(tz)
	}

	return out
}

// legacyTimezone synthesizes a UTC offset zone for sites that only have a
// manual gmt_offset.
func legacyTimezone(raw map[string]any) (string, bool) {
	if truthy(raw[KeyTimezoneString]) {
		return "", false
	}
	offset, ok := raw[keyGMTOffset].(string)
	if !ok || offset == "" {
		return "", false
	}
	if !strings.HasPrefix(offset, "+") && !strings.HasPrefix(offset, "-") {
		offset = "+" + offset
	}
	return "UTC" + offset, true
}

// truthy follows the loose truthiness of the settings payload: missing,
// false, 0 and "" are false, any other string is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case form.Value:
		return t.Truthy()
	}
	return true
}
