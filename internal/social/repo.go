package social

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solsticedigital/backoffice/pkg/db/models"
	"github.com/solsticedigital/backoffice/pkg/enums"
	"github.com/solsticedigital/backoffice/pkg/pagination"
)

type listQuery struct {
	status enums.ContentStatus
	kind   enums.PostKind
	cursor *pagination.Cursor
	limit  int
}

// Repository exposes social post persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a social post repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new social post row.
func (r *Repository) Create(ctx context.Context, post *models.SocialPost) (*models.SocialPost, error) {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// FindByID returns the social post with the given id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SocialPost, error) {
	var row models.SocialPost
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists the full social post row.
func (r *Repository) Update(ctx context.Context, post *models.SocialPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// List returns social posts using cursor pagination, newest first, with
// optional status and kind filters.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.SocialPost, error) {
	query := r.db.WithContext(ctx).Model(&models.SocialPost{})

	if opts.status != "" {
		query = query.Where("status = ?", opts.status)
	}
	if opts.kind != "" {
		query = query.Where("kind = ?", opts.kind)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.SocialPost
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindDueScheduled returns scheduled posts whose publish time has passed.
func (r *Repository) FindDueScheduled(ctx context.Context, now time.Time) ([]models.SocialPost, error) {
	var rows []models.SocialPost
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", enums.ContentStatusScheduled, now).
		Order("scheduled_for ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
