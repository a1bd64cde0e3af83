package enums

import "fmt"

// ContentStatus maps to the content_status enum in Postgres. The common path is
// draft/pending -> approved/scheduled -> published; rejected and failed are
// side branches that require a human or a fresh generation to re-enter the
// pipeline.
type ContentStatus string

const (
	ContentStatusDraft            ContentStatus = "draft"
	ContentStatusPending          ContentStatus = "pending"
	ContentStatusApproved         ContentStatus = "approved"
	ContentStatusScheduled        ContentStatus = "scheduled"
	ContentStatusPublished        ContentStatus = "published"
	ContentStatusPublishedAll     ContentStatus = "published_all"
	ContentStatusPublishedPartial ContentStatus = "published_partial"
	ContentStatusRejected         ContentStatus = "rejected"
	ContentStatusFailed           ContentStatus = "failed"
)

var validContentStatuses = []ContentStatus{
	ContentStatusDraft,
	ContentStatusPending,
	ContentStatusApproved,
	ContentStatusScheduled,
	ContentStatusPublished,
	ContentStatusPublishedAll,
	ContentStatusPublishedPartial,
	ContentStatusRejected,
	ContentStatusFailed,
}

// String implements fmt.Stringer.
func (c ContentStatus) String() string {
	return string(c)
}

// IsValid reports whether the value matches the canonical content_status enum.
func (c ContentStatus) IsValid() bool {
	for _, candidate := range validContentStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsPublished reports whether the status is a terminal published state.
func (c ContentStatus) IsPublished() bool {
	return c == ContentStatusPublished || c == ContentStatusPublishedAll || c == ContentStatusPublishedPartial
}

// IsTerminal reports whether the status permits no further transitions.
func (c ContentStatus) IsTerminal() bool {
	return c.IsPublished() || c == ContentStatusRejected
}

// ParseContentStatus converts raw input into ContentStatus.
func ParseContentStatus(value string) (ContentStatus, error) {
	for _, candidate := range validContentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content status %q", value)
}
