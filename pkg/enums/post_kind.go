package enums

import "fmt"

// PostKind distinguishes the social networks a SocialPost row targets.
type PostKind string

const (
	PostKindInstagram PostKind = "instagram"
	PostKindLinkedIn  PostKind = "linkedin"
)

var validPostKinds = []PostKind{
	PostKindInstagram,
	PostKindLinkedIn,
}

// String implements fmt.Stringer.
func (k PostKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k PostKind) IsValid() bool {
	for _, candidate := range validPostKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParsePostKind converts raw input into a PostKind.
func ParsePostKind(value string) (PostKind, error) {
	for _, candidate := range validPostKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid post kind %q", value)
}
