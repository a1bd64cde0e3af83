package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solsticedigital/backoffice/internal/blog"
	"github.com/solsticedigital/backoffice/internal/cron"
	"github.com/solsticedigital/backoffice/internal/publish"
	"github.com/solsticedigital/backoffice/internal/settings"
	"github.com/solsticedigital/backoffice/internal/social"
	"github.com/solsticedigital/backoffice/pkg/config"
	"github.com/solsticedigital/backoffice/pkg/db"
	"github.com/solsticedigital/backoffice/pkg/instagram"
	"github.com/solsticedigital/backoffice/pkg/linkedin"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/mailer"
	"github.com/solsticedigital/backoffice/pkg/metrics"
	"github.com/solsticedigital/backoffice/pkg/migrate"
	"github.com/solsticedigital/backoffice/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	blogService, err := blog.NewService(blog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create blog service", err)
		os.Exit(1)
	}
	// The worker only publishes existing rows; no caption drafter needed.
	socialService, err := social.NewService(social.NewRepository(dbClient.DB()), orchestrator, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create social service", err)
		os.Exit(1)
	}

	publishJob, err := cron.NewScheduledPublishJob(cron.ScheduledPublishJobParams{
		Logger: logg,
		Blog:   blogService,
		Social: socialService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduled publish job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName(cfg.App.Env)), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(publishJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	go serveMetrics(ctx, cfg.App.Port, logg)

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
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

func serveMetrics(ctx context.Context, port string, logg *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(":"+port, mux); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "metrics server stopped unexpectedly", err)
	}
}

func lockName(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("cron-worker:%s", env)
}
