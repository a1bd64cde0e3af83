// Package blog manages website article drafts through scheduling and
// publication.
package blog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solsticedigital/backoffice/pkg/db"
	"github.com/solsticedigital/backoffice/pkg/db/models"
	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/pagination"
)

var slugSanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)

// Postgres names the UNIQUE constraint on blog_posts.slug after the column.
const slugConstraint = "blog_posts_slug_key"

type blogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	List(ctx context.Context, opts listQuery) ([]models.BlogPost, error)
	FindDueScheduled(ctx context.Context, now time.Time) ([]models.BlogPost, error)
}

// CreateDraftInput holds the fields for a new draft.
type CreateDraftInput struct {
	Title    string
	Body     string
	Excerpt  string
	ImageURL string
}

// UpdateDraftInput carries optional field updates; nil fields stay untouched.
type UpdateDraftInput struct {
	Title    *string
	Body     *string
	Excerpt  *string
	ImageURL *string
}

// ListParams holds list filters and pagination inputs.
type ListParams struct {
	Status enums.ContentStatus
	Limit  int
	Cursor string
}

// ListResult is one page of posts plus the next cursor.
type ListResult struct {
	Items  []models.BlogPost
	Cursor string
}

// Service exposes the blog post lifecycle.
type Service interface {
	CreateDraft(ctx context.Context, input CreateDraftInput) (*models.BlogPost, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, input UpdateDraftInput) (*models.BlogPost, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	ListPosts(ctx context.Context, params ListParams) (*ListResult, error)
	SchedulePost(ctx context.Context, id uuid.UUID, at time.Time) (*models.BlogPost, error)
	PublishPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	PublishDue(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo blogRepository
	now  func() time.Time
}

// NewService builds the blog service.
func NewService(repo blogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("blog repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) CreateDraft(ctx context.Context, input CreateDraftInput) (*models.BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}

	post := &models.BlogPost{
		Title:   title,
		Slug:    Slugify(title),
		Body:    input.Body,
		Excerpt: strings.TrimSpace(input.Excerpt),
		Status:  enums.ContentStatusDraft,
	}
	if trimmed := strings.TrimSpace(input.ImageURL); trimmed != "" {
		post.ImageURL = &trimmed
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		if db.IsUniqueViolation(err, slugConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("a post with slug %q already exists", post.Slug))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create blog post")
	}
	return created, nil
}

func (s *service) UpdateDraft(ctx context.Context, id uuid.UUID, input UpdateDraftInput) (*models.BlogPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status.IsPublished() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "published posts cannot be edited")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		post.Title = title
		post.Slug = Slugify(title)
	}
	if input.Body != nil {
		post.Body = *input.Body
	}
	if input.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*input.Excerpt)
	}
	if input.ImageURL != nil {
		if trimmed := strings.TrimSpace(*input.ImageURL); trimmed != "" {
			post.ImageURL = &trimmed
		} else {
			post.ImageURL = nil
		}
	}

	if err := s.repo.Update(ctx, post); err != nil {
		if db.IsUniqueViolation(err, slugConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("a post with slug %q already exists", post.Slug))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update blog post")
	}
	return post, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id is required")
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup blog post")
	}
	return post, nil
}

func (s *service) ListPosts(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	query := listQuery{
		status: params.Status,
		limit:  pagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list blog posts")
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

func (s *service) SchedulePost(ctx context.Context, id uuid.UUID, at time.Time) (*models.BlogPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != enums.ContentStatusDraft && post.Status != enums.ContentStatusScheduled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot schedule a post in status %q", post.Status))
	}
	if !at.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time must be in the future")
	}

	utc := at.UTC()
	post.Status = enums.ContentStatusScheduled
	post.ScheduledFor = &utc

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "schedule blog post")
	}
	return post, nil
}

func (s *service) PublishPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.publishRow(ctx, post)
}

// PublishDue flips every scheduled post whose time has passed to published.
// Used by the cron worker; returns the number of posts published. A failing
// row is marked failed and does not stop the rest of the batch.
func (s *service) PublishDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.FindDueScheduled(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find due blog posts")
	}

	published := 0
	for i := range due {
		if _, err := s.publishRow(ctx, &due[i]); err != nil {
			s.markFailed(ctx, &due[i], err)
			continue
		}
		published++
	}
	return published, nil
}

func (s *service) markFailed(ctx context.Context, post *models.BlogPost, cause error) {
	msg := cause.Error()
	post.Status = enums.ContentStatusFailed
	post.PublishedAt = nil
	post.ErrorMessage = &msg
	_ = s.repo.Update(ctx, post)
}

func (s *service) publishRow(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	if post.Status.IsPublished() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "post is already published")
	}
	if post.Status == enums.ContentStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "rejected posts cannot be published")
	}

	now := s.now().UTC()
	post.Status = enums.ContentStatusPublished
	post.PublishedAt = &now
	post.ScheduledFor = nil
	post.ErrorMessage = nil

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish blog post")
	}
	return post, nil
}

// Slugify converts a title into a URL-safe slug.
func Slugify(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))
	slug := slugSanitizeRe.ReplaceAllString(lowered, "-")
	return strings.Trim(slug, "-")
}
