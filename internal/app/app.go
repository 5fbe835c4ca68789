package app

import (
	"context"
	"fmt"

	"contentorchestrator/internal/adapters"
	"contentorchestrator/internal/ai"
	"contentorchestrator/internal/config"
	"contentorchestrator/internal/db"
	"contentorchestrator/internal/extract"
	"contentorchestrator/internal/handlers"
	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/media"
	"contentorchestrator/internal/middleware"
	"contentorchestrator/internal/models"
	"contentorchestrator/internal/queue"
	"contentorchestrator/internal/repository"
	"contentorchestrator/internal/routes"
	"contentorchestrator/internal/services"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App: все компоненты процесса, собранные один раз при старте.
type App struct {
	Cfg *config.Config

	pool  *pgxpool.Pool
	redis *redis.Client

	Queue     *queue.RedisQueue
	Articles  repository.ArticleRepo
	Ledger    repository.PublicationRepo
	Generator *ai.Client
	Uploads   *media.LocalStore

	Publisher services.PublishingService
	Content   services.ContentService
	Feed      services.FeedService
	Scheduler *services.PublishScheduler
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	logger.Log.Info("Подключение к БД установлено", zap.String("dsn", cfg.GetDSNSafe()))

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	rdb, err := db.NewRedisClient(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	prompts, err := ai.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		pool.Close()
		_ = rdb.Close()
		return nil, err
	}
	gen, err := ai.New(cfg, prompts)
	if err != nil {
		pool.Close()
		_ = rdb.Close()
		return nil, err
	}

	// Репозитории
	articles := repository.NewArticleRepo(pool)
	ledger := repository.NewPublicationRepo(pool)

	q := queue.NewRedisQueue(rdb, cfg.QueueName, cfg.WorkerName, cfg.QueueMaxAttempts)

	// Площадки
	registry := adapters.NewRegistry(
		adapters.NewLinkedIn(cfg.LinkedInAPIURL, cfg.PublicArticleBaseURL, cfg.HTTPTimeout),
		adapters.NewMedium(cfg.MediumAPIURL, cfg.PublicArticleBaseURL, cfg.HTTPTimeout),
		adapters.NewXing(cfg.XingAPIURL, cfg.HTTPTimeout),
		adapters.NewRSS(),
		adapters.NewWebhook(cfg.WebhookURL, cfg.WebhookAPIKey, cfg.HTTPTimeout),
	)
	credentials := map[models.Platform]string{
		models.PlatformLinkedIn: cfg.LinkedInAccessToken,
		models.PlatformMedium:   cfg.MediumAccessToken,
		models.PlatformXing:     cfg.XingAccessToken,
	}

	// Картинки: локальные загрузки переносятся в CMS при публикации
	uploads := media.NewLocalStore(cfg.UploadDir, cfg.PublicAPIURL)
	var pubOpts []services.PublishingOption
	if cms := media.NewCMSClient(cfg.CMSImageURL, cfg.CMSToken, uploads, cfg.HTTPTimeout); cms.Enabled() {
		pubOpts = append(pubOpts, services.WithImageRehoster(cms))
	}

	// Сервисы
	publisher := services.NewPublishingService(articles, ledger, registry, credentials, pubOpts...)
	content := services.NewContentService(articles, ledger, publisher, q, gen, cfg.PublicArticleBaseURL)
	feed := services.NewFeedService(articles, services.FeedInfo{
		Title:          cfg.FeedTitle,
		Link:           cfg.FeedLink,
		Description:    cfg.FeedDescription,
		ArticleBaseURL: cfg.PublicArticleBaseURL,
	})
	scheduler := services.NewPublishScheduler(articles, publisher, models.PublishTarget{
		Platform: models.Platform(cfg.SchedulerPlatform),
		Language: models.Language(cfg.SchedulerLanguage),
	}, cfg.SchedulerInterval)

	return &App{
		Cfg:       cfg,
		pool:      pool,
		redis:     rdb,
		Queue:     q,
		Articles:  articles,
		Ledger:    ledger,
		Generator: gen,
		Uploads:   uploads,
		Publisher: publisher,
		Content:   content,
		Feed:      feed,
		Scheduler: scheduler,
	}, nil
}

// Router: HTTP API. Swagger и CORS навешиваются в cmd.
func (a *App) Router() *mux.Router {
	contentH := handlers.NewContentHandler(a.Content, a.Publisher)
	activityH := handlers.NewActivityHandler(logger.Dir)
	feedH := handlers.NewFeedHandler(a.Feed)
	mediaH := handlers.NewMediaHandler(a.Uploads)
	limiter := middleware.NewRateLimiter(a.Cfg.RateLimitRPS, a.Cfg.RateLimitBurst, a.Cfg.TrustedProxies)

	router := mux.NewRouter()
	routes.InitRoutes(router, contentH, activityH, feedH, mediaH, limiter)
	return router
}

func (a *App) Worker() *services.GenerationWorker {
	extractors := map[models.SourceType]services.Extractor{
		models.SourceYouTube: extract.NewTranscriptClient(a.Cfg.TranscriptAPIURL, a.Cfg.TranscriptAPIKey, a.Cfg.TranscriptRetries, a.Cfg.HTTPTimeout),
		models.SourceMedium:  extract.NewArticleScraper(a.Cfg.ArticleMirrorURL, a.Cfg.HTTPTimeout),
	}
	return services.NewGenerationWorker(a.Articles, extractors, a.Generator, a.Cfg.ExtractTimeout, a.Cfg.GenerationTimeout)
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
