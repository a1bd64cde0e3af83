// Package vlogs manages the multi-platform video publishing lifecycle.
package vlogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solsticedigital/backoffice/internal/publish"
	"github.com/solsticedigital/backoffice/pkg/db/models"
	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/pagination"
)

type vlogsRepository interface {
	Create(ctx context.Context, vlog *models.Vlog) (*models.Vlog, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vlog, error)
	Update(ctx context.Context, vlog *models.Vlog) error
	List(ctx context.Context, opts listQuery) ([]models.Vlog, error)
}

type orchestrator interface {
	Publish(ctx context.Context, content publish.Content, platforms []enums.Platform) publish.Result
}

// CreateVlogInput holds the fields required to create a vlog.
type CreateVlogInput struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
}

// PublishInput identifies the vlog, the platforms to push it to, and the
// description to publish with. The description is persisted on the row.
type PublishInput struct {
	VlogID      uuid.UUID
	Platforms   []enums.Platform
	Description string
}

// PublishOutcome summarizes a fan-out for the API response.
type PublishOutcome struct {
	Vlog      *models.Vlog
	Published []string
	Failed    []string
}

// ListParams holds pagination inputs for listing vlogs.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult is one page of vlogs plus the next cursor.
type ListResult struct {
	Items  []models.Vlog
	Cursor string
}

// Service exposes vlog creation, listing, and multi-platform publishing.
type Service interface {
	CreateVlog(ctx context.Context, input CreateVlogInput) (*models.Vlog, error)
	GetVlog(ctx context.Context, id uuid.UUID) (*models.Vlog, error)
	ListVlogs(ctx context.Context, params ListParams) (*ListResult, error)
	PublishVlog(ctx context.Context, input PublishInput) (*PublishOutcome, error)
}

type service struct {
	repo vlogsRepository
	orch orchestrator
	now  func() time.Time
}

// NewService builds the vlog service.
func NewService(repo vlogsRepository, orch orchestrator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vlog repository required")
	}
	if orch == nil {
		return nil, fmt.Errorf("publish orchestrator required")
	}
	return &service{
		repo: repo,
		orch: orch,
		now:  time.Now,
	}, nil
}

func (s *service) CreateVlog(ctx context.Context, input CreateVlogInput) (*models.Vlog, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.VideoURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video_url is required")
	}

	vlog := &models.Vlog{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		VideoURL:    strings.TrimSpace(input.VideoURL),
		Status:      enums.ContentStatusPending,
	}
	if trimmed := strings.TrimSpace(input.ThumbnailURL); trimmed != "" {
		vlog.ThumbnailURL = &trimmed
	}

	created, err := s.repo.Create(ctx, vlog)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vlog")
	}
	return created, nil
}

func (s *service) GetVlog(ctx context.Context, id uuid.UUID) (*models.Vlog, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vlog id is required")
	}
	vlog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vlog not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup vlog")
	}
	return vlog, nil
}

func (s *service) ListVlogs(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := listQuery{limit: pagination.LimitWithBuffer(params.Limit)}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vlogs")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	return &ListResult{Items: rows, Cursor: nextCursor}, nil
}

// PublishVlog fans the vlog out to the requested platforms and records the
// outcome on the row. Every attempted platform lands in published_to, and the
// status is recomputed from that list against the full social platform set.
func (s *service) PublishVlog(ctx context.Context, input PublishInput) (*PublishOutcome, error) {
	if input.VlogID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vlog_id is required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if len(input.Platforms) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one platform is required")
	}
	for _, platform := range input.Platforms {
		if !platform.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown platform %q", platform))
		}
	}

	vlog, err := s.GetVlog(ctx, input.VlogID)
	if err != nil {
		return nil, err
	}
	if vlog.Status == enums.ContentStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "rejected vlogs cannot be published")
	}

	vlog.Description = description

	content := publish.Content{
		Title:       vlog.Title,
		Description: vlog.Description,
		VideoURL:    vlog.VideoURL,
	}
	if vlog.ThumbnailURL != nil {
		content.ThumbnailURL = *vlog.ThumbnailURL
	}

	result := s.orch.Publish(ctx, content, input.Platforms)

	for _, platform := range result.Attempted {
		if !vlog.HasPublishedTo(platform) {
			vlog.PublishedTo = append(vlog.PublishedTo, platform.String())
		}
	}

	if len(result.Published) > 0 {
		vlog.Status = statusForCoverage(vlog)
		if vlog.PublishedAt == nil {
			now := s.now().UTC()
			vlog.PublishedAt = &now
		}
	} else if !vlog.Status.IsPublished() {
		// A fully failed run only downgrades rows that were never published;
		// earlier coverage and published_at stay intact on a failed re-run.
		vlog.Status = enums.ContentStatusFailed
	}

	if result.Err != nil {
		msg := result.Err.Error()
		vlog.ErrorMessage = &msg
	} else {
		vlog.ErrorMessage = nil
	}

	if err := s.repo.Update(ctx, vlog); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vlog after publish")
	}

	return &PublishOutcome{
		Vlog:      vlog,
		Published: result.Published,
		Failed:    result.Failed,
	}, nil
}

// statusForCoverage compares published_to against the social platform set.
// Newsletter sends do not count toward coverage.
func statusForCoverage(vlog *models.Vlog) enums.ContentStatus {
	for _, platform := range enums.SocialPlatforms() {
		if !vlog.HasPublishedTo(platform) {
			return enums.ContentStatusPublishedPartial
		}
	}
	return enums.ContentStatusPublishedAll
}
