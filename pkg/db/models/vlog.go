package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/solsticedigital/backoffice/pkg/enums"
)

// Vlog is a short-form video asset that can be pushed to several platforms in
// one publish operation. PublishedTo records the platforms attempted by the
// orchestrator and only ever grows.
type Vlog struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string              `gorm:"column:title;not null"`
	Description  string              `gorm:"column:description"`
	VideoURL     string              `gorm:"column:video_url;not null"`
	ThumbnailURL *string             `gorm:"column:thumbnail_url"`
	Status       enums.ContentStatus `gorm:"column:status;type:content_status;not null;default:'pending'"`
	PublishedTo  pq.StringArray      `gorm:"column:published_to;type:text[]"`
	PublishedAt  *time.Time          `gorm:"column:published_at"`
	ErrorMessage *string             `gorm:"column:error_message"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPublishedTo reports whether the platform is already recorded on the vlog.
func (v *Vlog) HasPublishedTo(platform enums.Platform) bool {
	for _, existing := range v.PublishedTo {
		if existing == string(platform) {
			return true
		}
	}
	return false
}
