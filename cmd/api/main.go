package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solsticedigital/backoffice/api/routes"
	"github.com/solsticedigital/backoffice/internal/blog"
	"github.com/solsticedigital/backoffice/internal/generator"
	"github.com/solsticedigital/backoffice/internal/publish"
	"github.com/solsticedigital/backoffice/internal/settings"
	"github.com/solsticedigital/backoffice/internal/social"
	"github.com/solsticedigital/backoffice/internal/vlogs"
	"github.com/solsticedigital/backoffice/pkg/config"
	"github.com/solsticedigital/backoffice/pkg/db"
	"github.com/solsticedigital/backoffice/pkg/instagram"
	"github.com/solsticedigital/backoffice/pkg/linkedin"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/mailer"
	"github.com/solsticedigital/backoffice/pkg/metrics"
	"github.com/solsticedigital/backoffice/pkg/migrate"
	"github.com/solsticedigital/backoffice/pkg/openai"
	"github.com/solsticedigital/backoffice/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	instagramClient, err := instagram.NewClient(context.Background(), cfg.Instagram, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create instagram client", err)
		os.Exit(1)
	}
	linkedinClient, err := linkedin.NewClient(context.Background(), cfg.LinkedIn, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create linkedin client", err)
		os.Exit(1)
	}
	openaiClient, err := openai.NewClient(context.Background(), cfg.OpenAI, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create openai client", err)
		os.Exit(1)
	}
	mailerClient, err := mailer.New(context.Background(), cfg.SMTP, cfg.Newsletter, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	orchestrator, err := buildOrchestrator(logg, instagramClient, linkedinClient, mailerClient, settingsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create publish orchestrator", err)
		os.Exit(1)
	}

	generatorService, err := generator.NewService(openaiClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create generator service", err)
		os.Exit(1)
	}
	blogService, err := blog.NewService(blog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create blog service", err)
		os.Exit(1)
	}
	socialService, err := social.NewService(social.NewRepository(dbClient.DB()), orchestrator, generatorService)
	if err != nil {
		logg.Error(context.Background(), "failed to create social service", err)
		os.Exit(1)
	}
	vlogService, err := vlogs.NewService(vlogs.NewRepository(dbClient.DB()), orchestrator)
	if err != nil {
		logg.Error(context.Background(), "failed to create vlog service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			blogService,
			socialService,
			vlogService,
			settingsService,
			generatorService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildOrchestrator(
	logg *logger.Logger,
	instagramClient *instagram.Client,
	linkedinClient *linkedin.Client,
	mailerClient *mailer.Mailer,
	settingsService settings.Service,
) (*publish.Orchestrator, error) {
	feed, err := publish.NewInstagramFeedAdapter(instagramClient)
	if err != nil {
		return nil, err
	}
	reels, err := publish.NewInstagramReelsAdapter(instagramClient)
	if err != nil {
		return nil, err
	}
	li, err := publish.NewLinkedInAdapter(linkedinClient, settingsService)
	if err != nil {
		return nil, err
	}
	newsletter, err := publish.NewNewsletterAdapter(mailerClient, settingsService)
	if err != nil {
		return nil, err
	}

	registry, err := publish.NewRegistry(feed, reels, li, newsletter)
	if err != nil {
		return nil, err
	}
	return publish.NewOrchestrator(registry, logg, metrics.NewPublishMetrics(prometheus.DefaultRegisterer))
}
