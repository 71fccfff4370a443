package checklist

import "strings"

// Platform identifies the social network a task targets.
//
// The feed is free text, so a Platform may hold a value outside the known
// set. Such values are kept verbatim (lower-cased) and report IsKnown false;
// they still take part in exact-match filtering and per-platform counts.
type Platform string

const (
	PlatformX         Platform = "x"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
)

// DefaultPlatform is used when the feed leaves the platform column empty.
const DefaultPlatform = PlatformX

// KnownPlatforms lists the supported platforms in display order.
var KnownPlatforms = []Platform{PlatformX, PlatformInstagram, PlatformFacebook, PlatformTikTok}

var platformLabels = map[Platform]string{
	PlatformX:         "X",
	PlatformInstagram: "IG",
	PlatformFacebook:  "FB",
	PlatformTikTok:    "TT",
}

// ParsePlatform normalizes raw feed text. Empty input yields DefaultPlatform.
// The boolean is false when the value is not one of KnownPlatforms.
func ParsePlatform(raw string) (Platform, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return DefaultPlatform, true
	}
	p := Platform(v)
	return p, p.IsKnown()
}

// IsKnown reports whether p is one of KnownPlatforms.
func (p Platform) IsKnown() bool {
	_, ok := platformLabels[p]
	return ok
}

// Label returns the short badge text for p.
func (p Platform) Label() string {
	if l, ok := platformLabels[p]; ok {
		return l
	}
	return strings.ToUpper(string(p))
}

func (p Platform) String() string {
	return string(p)
}
