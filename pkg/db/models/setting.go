package models

import "time"

// Setting is a key/value row for operator-managed configuration such as the
// LinkedIn access token, author URN, and newsletter recipients.
type Setting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Well-known setting keys.
const (
	SettingLinkedInAccessToken  = "linkedin_access_token"
	SettingLinkedInAuthorURN    = "linkedin_author_urn"
	SettingNewsletterRecipients = "newsletter_recipients"
)
