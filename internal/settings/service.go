// Package settings manages operator-editable configuration rows such as
// LinkedIn credentials and the newsletter recipient list.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/solsticedigital/backoffice/pkg/db/models"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/linkedin"
)

type settingsRepository interface {
	FindByKey(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
}

// Service exposes read/write access to well-known settings.
type Service interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	LinkedInCredentials(ctx context.Context) (linkedin.Credentials, error)
	NewsletterRecipients(ctx context.Context) ([]string, error)
}

type service struct {
	repo settingsRepository
}

// NewService builds the settings service.
func NewService(repo settingsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	row, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("setting %q not found", key))
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup setting")
	}
	return row.Value, nil
}

func (s *service) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	if err := s.repo.Upsert(ctx, &models.Setting{Key: key, Value: value}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert setting")
	}
	return nil
}

// LinkedInCredentials resolves the token and author URN stored by operators.
// Both must be present before a LinkedIn publish can run.
func (s *service) LinkedInCredentials(ctx context.Context) (linkedin.Credentials, error) {
	token, err := s.lookupOptional(ctx, models.SettingLinkedInAccessToken)
	if err != nil {
		return linkedin.Credentials{}, err
	}
	urn, err := s.lookupOptional(ctx, models.SettingLinkedInAuthorURN)
	if err != nil {
		return linkedin.Credentials{}, err
	}

	creds := linkedin.Credentials{AccessToken: token, AuthorURN: urn}
	if err := creds.Validate(); err != nil {
		return linkedin.Credentials{}, err
	}
	return creds, nil
}

// NewsletterRecipients returns the comma-separated recipient list as a slice.
func (s *service) NewsletterRecipients(ctx context.Context) ([]string, error) {
	raw, err := s.lookupOptional(ctx, models.SettingNewsletterRecipients)
	if err != nil {
		return nil, err
	}

	var recipients []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	if len(recipients) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "newsletter recipient list is empty")
	}
	return recipients, nil
}

func (s *service) lookupOptional(ctx context.Context, key string) (string, error) {
	row, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup setting")
	}
	return row.Value, nil
}
