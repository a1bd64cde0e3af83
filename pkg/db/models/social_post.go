package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/solsticedigital/backoffice/pkg/enums"
)

// SocialPost is a single Instagram or LinkedIn post moving through the
// pending -> approved -> published pipeline. Generated posts start in pending;
// a rejection requires a reason and is final.
type SocialPost struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Kind            enums.PostKind      `gorm:"column:kind;type:post_kind;not null"`
	Caption         string              `gorm:"column:caption;not null"`
	ImageURL        *string             `gorm:"column:image_url"`
	Status          enums.ContentStatus `gorm:"column:status;type:content_status;not null;default:'pending'"`
	ScheduledFor    *time.Time          `gorm:"column:scheduled_for"`
	PublishedAt     *time.Time          `gorm:"column:published_at"`
	RejectionReason *string             `gorm:"column:rejection_reason"`
	ErrorMessage    *string             `gorm:"column:error_message"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
