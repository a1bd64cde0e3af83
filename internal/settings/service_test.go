package settings

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/solsticedigital/backoffice/pkg/db/models"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
)

type stubSettingsRepo struct {
	rows      map[string]string
	findErr   error
	upserted  *models.Setting
	upsertErr error
}

func (s *stubSettingsRepo) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	value, ok := s.rows[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Setting{Key: key, Value: value}, nil
}

func (s *stubSettingsRepo) Upsert(ctx context.Context, setting *models.Setting) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = setting
	return nil
}

func TestLinkedInCredentialsResolved(t *testing.T) {
	repo := &stubSettingsRepo{rows: map[string]string{
		models.SettingLinkedInAccessToken: "token-xyz",
		models.SettingLinkedInAuthorURN:   "urn:li:organization:12",
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	creds, err := svc.LinkedInCredentials(context.Background())
	if err != nil {
		t.Fatalf("resolve credentials: %v", err)
	}
	if creds.AccessToken != "token-xyz" {
		t.Errorf("unexpected token %q", creds.AccessToken)
	}
	if creds.AuthorURN != "urn:li:organization:12" {
		t.Errorf("unexpected urn %q", creds.AuthorURN)
	}
}

func TestLinkedInCredentialsMissingToken(t *testing.T) {
	repo := &stubSettingsRepo{rows: map[string]string{
		models.SettingLinkedInAuthorURN: "urn:li:organization:12",
	}}
	svc, _ := NewService(repo)

	_, err := svc.LinkedInCredentials(context.Background())
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Errorf("expected unauthorized code, got %v", err)
	}
}

func TestNewsletterRecipientsParsesList(t *testing.T) {
	repo := &stubSettingsRepo{rows: map[string]string{
		models.SettingNewsletterRecipients: "a@example.com, b@example.com,,  c@example.com ",
	}}
	svc, _ := NewService(repo)

	recipients, err := svc.NewsletterRecipients(context.Background())
	if err != nil {
		t.Fatalf("newsletter recipients: %v", err)
	}
	if len(recipients) != 3 {
		t.Fatalf("expected 3 recipients, got %d", len(recipients))
	}
	if recipients[2] != "c@example.com" {
		t.Errorf("unexpected recipient %q", recipients[2])
	}
}

func TestNewsletterRecipientsEmptyListRejected(t *testing.T) {
	repo := &stubSettingsRepo{rows: map[string]string{}}
	svc, _ := NewService(repo)

	_, err := svc.NewsletterRecipients(context.Background())
	if err == nil {
		t.Fatal("expected error for empty recipient list")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Errorf("expected state conflict code, got %v", err)
	}
}

func TestGetMissingSettingIsNotFound(t *testing.T) {
	svc, _ := NewService(&stubSettingsRepo{rows: map[string]string{}})

	_, err := svc.Get(context.Background(), "missing_key")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Errorf("expected not found code, got %v", err)
	}
}

func TestSetWritesThroughRepo(t *testing.T) {
	repo := &stubSettingsRepo{rows: map[string]string{}}
	svc, _ := NewService(repo)

	if err := svc.Set(context.Background(), "some_key", "some_value"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if repo.upserted == nil || repo.upserted.Key != "some_key" || repo.upserted.Value != "some_value" {
		t.Errorf("unexpected upsert %+v", repo.upserted)
	}
}
