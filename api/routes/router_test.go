package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/solsticedigital/backoffice/internal/blog"
	"github.com/solsticedigital/backoffice/internal/generator"
	"github.com/solsticedigital/backoffice/internal/social"
	"github.com/solsticedigital/backoffice/internal/vlogs"
	pkgauth "github.com/solsticedigital/backoffice/pkg/auth"
	"github.com/solsticedigital/backoffice/pkg/config"
	"github.com/solsticedigital/backoffice/pkg/db/models"
	"github.com/solsticedigital/backoffice/pkg/linkedin"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubBlogService struct{}

func (stubBlogService) CreateDraft(ctx context.Context, input blog.CreateDraftInput) (*models.BlogPost, error) {
	return &models.BlogPost{ID: uuid.New()}, nil
}

func (stubBlogService) UpdateDraft(ctx context.Context, id uuid.UUID, input blog.UpdateDraftInput) (*models.BlogPost, error) {
	return &models.BlogPost{ID: id}, nil
}

func (stubBlogService) GetPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return &models.BlogPost{ID: id}, nil
}

func (stubBlogService) ListPosts(ctx context.Context, params blog.ListParams) (*blog.ListResult, error) {
	return &blog.ListResult{}, nil
}

func (stubBlogService) SchedulePost(ctx context.Context, id uuid.UUID, at time.Time) (*models.BlogPost, error) {
	return &models.BlogPost{ID: id}, nil
}

func (stubBlogService) PublishPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return &models.BlogPost{ID: id}, nil
}

func (stubBlogService) PublishDue(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

type stubSocialService struct{}

func (stubSocialService) CreatePost(ctx context.Context, input social.CreatePostInput) (*models.SocialPost, error) {
	return &models.SocialPost{ID: uuid.New()}, nil
}

func (stubSocialService) GetPost(ctx context.Context, id uuid.UUID) (*models.SocialPost, error) {
	return &models.SocialPost{ID: id}, nil
}

func (stubSocialService) ListPosts(ctx context.Context, params social.ListParams) (*social.ListResult, error) {
	return &social.ListResult{}, nil
}

func (stubSocialService) ApprovePost(ctx context.Context, id uuid.UUID) (*models.SocialPost, error) {
	return &models.SocialPost{ID: id}, nil
}

func (stubSocialService) RejectPost(ctx context.Context, id uuid.UUID, reason string) (*models.SocialPost, error) {
	return &models.SocialPost{ID: id}, nil
}

func (stubSocialService) SchedulePost(ctx context.Context, id uuid.UUID, at time.Time) (*models.SocialPost, error) {
	return &models.SocialPost{ID: id}, nil
}

func (stubSocialService) PublishPost(ctx context.Context, id uuid.UUID) (*models.SocialPost, error) {
	return &models.SocialPost{ID: id}, nil
}

func (stubSocialService) PublishDue(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

type stubVlogsService struct{}

func (stubVlogsService) CreateVlog(ctx context.Context, input vlogs.CreateVlogInput) (*models.Vlog, error) {
	return &models.Vlog{ID: uuid.New()}, nil
}

func (stubVlogsService) GetVlog(ctx context.Context, id uuid.UUID) (*models.Vlog, error) {
	return &models.Vlog{ID: id}, nil
}

func (stubVlogsService) ListVlogs(ctx context.Context, params vlogs.ListParams) (*vlogs.ListResult, error) {
	return &vlogs.ListResult{}, nil
}

func (stubVlogsService) PublishVlog(ctx context.Context, input vlogs.PublishInput) (*vlogs.PublishOutcome, error) {
	return &vlogs.PublishOutcome{Vlog: &models.Vlog{ID: input.VlogID}}, nil
}

type stubSettingsService struct{}

func (stubSettingsService) Get(ctx context.Context, key string) (string, error) {
	return "value", nil
}

func (stubSettingsService) Set(ctx context.Context, key, value string) error {
	return nil
}

func (stubSettingsService) LinkedInCredentials(ctx context.Context) (linkedin.Credentials, error) {
	return linkedin.Credentials{}, nil
}

func (stubSettingsService) NewsletterRecipients(ctx context.Context) ([]string, error) {
	return nil, nil
}

type stubGeneratorService struct{}

func (stubGeneratorService) GenerateCaption(ctx context.Context, input generator.CaptionInput) (string, error) {
	return "caption", nil
}

func (stubGeneratorService) GenerateArticle(ctx context.Context, input generator.ArticleInput) (*generator.ArticleDraft, error) {
	return &generator.ArticleDraft{Body: "body"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubBlogService{},
		stubSocialService{},
		stubVlogsService{},
		stubSettingsService{},
		stubGeneratorService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	token, err := pkgauth.IssueAccessToken(cfg.JWT, uuid.New(), role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/vlogs", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupAcceptsValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/vlogs", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.RoleEditor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestSettingsRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	editor := httptest.NewRequest(http.MethodGet, "/api/admin/v1/settings/linkedin_access_token", nil)
	editor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.RoleEditor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, editor)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for editor got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/settings/linkedin_access_token", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestVlogPublishRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{"vlog_id":"` + uuid.NewString() + `","platforms":["linkedin"],"description":"launch recap"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/vlogs/publish", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.RoleEditor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}
}

func TestVlogPublishWithIdempotencyKeyReachesHandler(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{"vlog_id":"` + uuid.NewString() + `","platforms":["linkedin"],"description":"launch recap"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/vlogs/publish", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, pkgauth.RoleEditor))
	req.Header.Set("Idempotency-Key", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with Idempotency-Key got %d: %s", resp.Code, resp.Body.String())
	}
}
