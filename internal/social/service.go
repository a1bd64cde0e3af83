// Package social manages the review lifecycle for single-platform posts:
// pending drafts are approved or rejected, then published or scheduled.
package social

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solsticedigital/backoffice/internal/generator"
	"github.com/solsticedigital/backoffice/internal/publish"
	"github.com/solsticedigital/backoffice/pkg/db/models"
	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/pagination"
)

type socialRepository interface {
	Create(ctx context.Context, post *models.SocialPost) (*models.SocialPost, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SocialPost, error)
	Update(ctx context.Context, post *models.SocialPost) error
	List(ctx context.Context, opts listQuery) ([]models.SocialPost, error)
	FindDueScheduled(ctx context.Context, now time.Time) ([]models.SocialPost, error)
}

type orchestrator interface {
	Publish(ctx context.Context, content publish.Content, platforms []enums.Platform) publish.Result
}

type captionDrafter interface {
	GenerateCaption(ctx context.Context, input generator.CaptionInput) (string, error)
}

// CreatePostInput holds the fields for a new pending post. Caption and Topic
// are alternatives: a post without a caption gets one drafted from the topic.
type CreatePostInput struct {
	Kind     enums.PostKind
	Caption  string
	Topic    string
	Notes    string
	ImageURL string
}

// ListParams holds list filters and pagination inputs.
type ListParams struct {
	Status enums.ContentStatus
	Kind   enums.PostKind
	Limit  int
	Cursor string
}

// ListResult is one page of posts plus the next cursor.
type ListResult struct {
	Items  []models.SocialPost
	Cursor string
}

// Service exposes the social post review and publish lifecycle.
type Service interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*models.SocialPost, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.SocialPost, error)
	ListPosts(ctx context.Context, params ListParams) (*ListResult, error)
	ApprovePost(ctx context.Context, id uuid.UUID) (*models.SocialPost, error)
	RejectPost(ctx context.Context, id uuid.UUID, reason string) (*models.SocialPost, error)
	SchedulePost(ctx context.Context, id uuid.UUID, at time.Time) (*models.SocialPost, error)
	PublishPost(ctx context.Context, id uuid.UUID) (*models.SocialPost, error)
	PublishDue(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo    socialRepository
	orch    orchestrator
	drafter captionDrafter
	now     func() time.Time
}

// NewService builds the social post service. The drafter may be nil; callers
// that never create generated posts (the cron worker) leave it unset.
func NewService(repo socialRepository, orch orchestrator, drafter captionDrafter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("social repository required")
	}
	if orch == nil {
		return nil, fmt.Errorf("publish orchestrator required")
	}
	return &service{repo: repo, orch: orch, drafter: drafter, now: time.Now}, nil
}

func (s *service) CreatePost(ctx context.Context, input CreatePostInput) (*models.SocialPost, error) {
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid post kind")
	}
	caption := strings.TrimSpace(input.Caption)
	topic := strings.TrimSpace(input.Topic)
	if caption == "" && topic == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "caption or topic is required")
	}
	if caption == "" && s.drafter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "caption is required")
	}
	imageURL := strings.TrimSpace(input.ImageURL)
	if input.Kind == enums.PostKindInstagram && imageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_url is required for instagram posts")
	}

	post := &models.SocialPost{
		Kind:    input.Kind,
		Caption: caption,
		Status:  enums.ContentStatusPending,
	}
	if imageURL != "" {
		post.ImageURL = &imageURL
	}

	if caption == "" {
		drafted, err := s.drafter.GenerateCaption(ctx, generator.CaptionInput{
			Kind:  input.Kind,
			Topic: topic,
			Notes: input.Notes,
		})
		if err != nil {
			// The row is kept so the operator sees the failure in the
			// review queue instead of losing the request.
			msg := err.Error()
			post.Status = enums.ContentStatusFailed
			post.ErrorMessage = &msg
		} else {
			post.Caption = drafted
		}
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create social post")
	}
	return created, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*models.SocialPost, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id is required")
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "social post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup social post")
	}
	return post, nil
}

func (s *service) ListPosts(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if params.Kind != "" && !params.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid kind filter")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	query := listQuery{
		status: params.Status,
		kind:   params.Kind,
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list social posts")
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

func (s *service) ApprovePost(ctx context.Context, id uuid.UUID) (*models.SocialPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != enums.ContentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending posts can be approved")
	}

	post.Status = enums.ContentStatusApproved
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve social post")
	}
	return post, nil
}

func (s *service) RejectPost(ctx context.Context, id uuid.UUID, reason string) (*models.SocialPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != enums.ContentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending posts can be rejected")
	}

	post.Status = enums.ContentStatusRejected
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		post.RejectionReason = &trimmed
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject social post")
	}
	return post, nil
}

func (s *service) SchedulePost(ctx context.Context, id uuid.UUID, at time.Time) (*models.SocialPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != enums.ContentStatusApproved && post.Status != enums.ContentStatusScheduled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only approved posts can be scheduled")
	}
	if !at.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time must be in the future")
	}

	utc := at.UTC()
	post.Status = enums.ContentStatusScheduled
	post.ScheduledFor = &utc

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "schedule social post")
	}
	return post, nil
}

func (s *service) PublishPost(ctx context.Context, id uuid.UUID) (*models.SocialPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.publishRow(ctx, post)
}

// PublishDue publishes every scheduled post whose time has passed. A failing
// post is marked failed and does not stop the rest of the batch.
func (s *service) PublishDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.FindDueScheduled(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find due social posts")
	}

	published := 0
	for i := range due {
		if _, err := s.publishRow(ctx, &due[i]); err == nil {
			published++
		}
	}
	return published, nil
}

func (s *service) publishRow(ctx context.Context, post *models.SocialPost) (*models.SocialPost, error) {
	switch post.Status {
	case enums.ContentStatusApproved, enums.ContentStatusScheduled, enums.ContentStatusFailed:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot publish a post in status %q", post.Status))
	}

	content := publish.Content{
		Title:       post.Caption,
		Description: post.Caption,
	}
	if post.ImageURL != nil {
		content.ThumbnailURL = *post.ImageURL
	}

	result := s.orch.Publish(ctx, content, []enums.Platform{platformForKind(post.Kind)})

	if result.Err != nil {
		msg := result.Err.Error()
		post.Status = enums.ContentStatusFailed
		post.ErrorMessage = &msg
		if updateErr := s.repo.Update(ctx, post); updateErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, updateErr, "record social post failure")
		}
		return nil, result.Err
	}

	now := s.now().UTC()
	post.Status = enums.ContentStatusPublished
	post.PublishedAt = &now
	post.ScheduledFor = nil
	post.ErrorMessage = nil

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish social post")
	}
	return post, nil
}

func platformForKind(kind enums.PostKind) enums.Platform {
	if kind == enums.PostKindLinkedIn {
		return enums.PlatformLinkedIn
	}
	return enums.PlatformInstagramFeed
}
