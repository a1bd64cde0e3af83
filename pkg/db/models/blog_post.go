package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/solsticedigital/backoffice/pkg/enums"
)

// BlogPost is a long-form article for the marketing site. Drafts move to
// scheduled or straight to published; failures during a scheduled publish run
// land in failed with the error recorded.
type BlogPost struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string              `gorm:"column:title;not null"`
	Slug         string              `gorm:"column:slug;not null;unique"`
	Body         string              `gorm:"column:body;not null"`
	Excerpt      string              `gorm:"column:excerpt"`
	ImageURL     *string             `gorm:"column:image_url"`
	Status       enums.ContentStatus `gorm:"column:status;type:content_status;not null;default:'draft'"`
	ScheduledFor *time.Time          `gorm:"column:scheduled_for"`
	PublishedAt  *time.Time          `gorm:"column:published_at"`
	ErrorMessage *string             `gorm:"column:error_message"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
