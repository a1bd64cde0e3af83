package enums

import "fmt"

// Platform identifies a publishing destination handled by a platform adapter.
type Platform string

const (
	PlatformInstagramFeed  Platform = "instagram_feed"
	PlatformInstagramReels Platform = "instagram_reels"
	PlatformLinkedIn       Platform = "linkedin"
	PlatformNewsletter     Platform = "newsletter"
)

var validPlatforms = []Platform{
	PlatformInstagramFeed,
	PlatformInstagramReels,
	PlatformLinkedIn,
	PlatformNewsletter,
}

var platformLabels = map[Platform]string{
	PlatformInstagramFeed:  "Instagram Feed",
	PlatformInstagramReels: "Instagram Reels",
	PlatformLinkedIn:       "LinkedIn",
	PlatformNewsletter:     "Newsletter",
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}

// IsValid reports whether the platform is known.
func (p Platform) IsValid() bool {
	for _, candidate := range validPlatforms {
		if candidate == p {
			return true
		}
	}
	return false
}

// Label returns the human-readable platform name shown to admins.
func (p Platform) Label() string {
	if label, ok := platformLabels[p]; ok {
		return label
	}
	return string(p)
}

// ParsePlatform converts raw input into a Platform.
func ParsePlatform(value string) (Platform, error) {
	for _, candidate := range validPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid platform %q", value)
}

// SocialPlatforms lists the destinations counted when deciding whether a vlog
// reached every known platform. The newsletter channel is opt-in and excluded.
func SocialPlatforms() []Platform {
	return []Platform{
		PlatformInstagramFeed,
		PlatformInstagramReels,
		PlatformLinkedIn,
	}
}
