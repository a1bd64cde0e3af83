package vlogs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solsticedigital/backoffice/pkg/db/models"
	"github.com/solsticedigital/backoffice/pkg/pagination"
)

type listQuery struct {
	cursor *pagination.Cursor
	limit  int
}

// Repository exposes vlog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a vlog repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new vlog row.
func (r *Repository) Create(ctx context.Context, vlog *models.Vlog) (*models.Vlog, error) {
	if err := r.db.WithContext(ctx).Create(vlog).Error; err != nil {
		return nil, err
	}
	return vlog, nil
}

// FindByID returns the vlog with the given id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vlog, error) {
	var row models.Vlog
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists the full vlog row.
func (r *Repository) Update(ctx context.Context, vlog *models.Vlog) error {
	return r.db.WithContext(ctx).Save(vlog).Error
}

// List returns vlogs using cursor pagination, newest first.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Vlog, error) {
	query := r.db.WithContext(ctx).Model(&models.Vlog{})

	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Vlog
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
