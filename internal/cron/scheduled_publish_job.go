package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/solsticedigital/backoffice/pkg/logger"
)

type duePublisher interface {
	PublishDue(ctx context.Context, now time.Time) (int, error)
}

// ScheduledPublishJobParams configure the scheduled content publisher.
type ScheduledPublishJobParams struct {
	Logger *logger.Logger
	Blog   duePublisher
	Social duePublisher
}

// NewScheduledPublishJob builds the cron job that releases scheduled blog and
// social posts whose publish time has arrived.
func NewScheduledPublishJob(params ScheduledPublishJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Blog == nil {
		return nil, fmt.Errorf("blog service required")
	}
	if params.Social == nil {
		return nil, fmt.Errorf("social service required")
	}
	return &scheduledPublishJob{
		logg:   params.Logger,
		blog:   params.Blog,
		social: params.Social,
		now:    time.Now,
	}, nil
}

type scheduledPublishJob struct {
	logg   *logger.Logger
	blog   duePublisher
	social duePublisher
	now    func() time.Time
}

func (j *scheduledPublishJob) Name() string { return "scheduled-publish" }

func (j *scheduledPublishJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var errs []error

	blogCount, err := j.blog.PublishDue(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("publish due blog posts: %w", err))
	}

	socialCount, err := j.social.PublishDue(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("publish due social posts: %w", err))
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"blog_published":   blogCount,
		"social_published": socialCount,
	})
	j.logg.Info(logCtx, "scheduled publish loop complete")

	return multierr.Combine(errs...)
}
