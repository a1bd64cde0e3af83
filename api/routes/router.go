package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solsticedigital/backoffice/api/controllers"
	"github.com/solsticedigital/backoffice/api/middleware"
	"github.com/solsticedigital/backoffice/internal/blog"
	"github.com/solsticedigital/backoffice/internal/generator"
	"github.com/solsticedigital/backoffice/internal/settings"
	"github.com/solsticedigital/backoffice/internal/social"
	"github.com/solsticedigital/backoffice/internal/vlogs"
	"github.com/solsticedigital/backoffice/pkg/config"
	"github.com/solsticedigital/backoffice/pkg/db"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	blogService blog.Service,
	socialService social.Service,
	vlogService vlogs.Service,
	settingsService settings.Service,
	generatorService generator.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	// A typed-nil *redis.Client must become a nil interface, otherwise the
	// middleware's nil check never fires.
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", controllers.BlogList(blogService, logg))
			r.Post("/", controllers.BlogCreate(blogService, logg))
			r.Get("/{postId}", controllers.BlogGet(blogService, logg))
			r.Put("/{postId}", controllers.BlogUpdate(blogService, logg))
			r.Post("/{postId}/schedule", controllers.BlogSchedule(blogService, logg))
			r.Post("/{postId}/publish", controllers.BlogPublish(blogService, logg))
		})

		r.Route("/social", func(r chi.Router) {
			r.Get("/", controllers.SocialList(socialService, logg))
			r.Post("/", controllers.SocialCreate(socialService, logg))
			r.Get("/{postId}", controllers.SocialGet(socialService, logg))
			r.Post("/{postId}/approve", controllers.SocialApprove(socialService, logg))
			r.Post("/{postId}/reject", controllers.SocialReject(socialService, logg))
			r.Post("/{postId}/schedule", controllers.SocialSchedule(socialService, logg))
			r.Post("/{postId}/publish", controllers.SocialPublish(socialService, logg))
		})

		r.Route("/vlogs", func(r chi.Router) {
			r.Get("/", controllers.VlogList(vlogService, logg))
			r.Post("/", controllers.VlogCreate(vlogService, logg))
			r.Post("/publish", controllers.VlogPublish(vlogService, logg))
			r.Get("/{vlogId}", controllers.VlogGet(vlogService, logg))
		})

		r.Route("/generate", func(r chi.Router) {
			r.Post("/caption", controllers.GenerateCaption(generatorService, logg))
			r.Post("/article", controllers.GenerateArticle(generatorService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/{key}", controllers.SettingGet(settingsService, logg))
			r.Put("/{key}", controllers.SettingPut(settingsService, logg))
		})
	})

	return r
}
