package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contentorchestrator/internal/adapters"
	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"
	"contentorchestrator/internal/repository"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrArticleNotFound     = errors.New("статья не найдена")
	ErrUnknownPlatform     = adapters.ErrUnknownPlatform
	ErrUnsupportedLanguage = errors.New("неподдерживаемый язык")
	ErrInvalidInput        = errors.New("некорректные данные")
)

type PublishingService interface {
	Platforms() []models.PlatformDescriptor
	PublishToPlatform(ctx context.Context, articleID string, platform models.Platform, credential string, lang models.Language) (models.PublishResult, error)
	UnpublishFromPlatform(ctx context.Context, articleID string, platform models.Platform, credential string, lang models.Language) error
	UnpublishAll(ctx context.Context, articleID string) error
	PublishAll(ctx context.Context, articleID string, targets []models.PublishTarget) ([]models.PublishOutcome, error)
}

type publishingService struct {
	articles repository.ArticleRepo
	ledger   repository.PublicationRepo
	registry *adapters.Registry
	// токены по умолчанию, если вызывающий свой не передал
	credentials map[models.Platform]string
	images      ImageRehoster
	now         func() time.Time
}

// ImageRehoster переносит локально загруженную картинку во внешнее хранилище
// и возвращает её постоянный адрес.
type ImageRehoster interface {
	Rehost(ctx context.Context, link, altText, articleTitle string) (string, error)
}

type PublishingOption func(*publishingService)

// WithImageRehoster включает перенос локальных картинок перед вызовом площадки.
func WithImageRehoster(r ImageRehoster) PublishingOption {
	return func(s *publishingService) { s.images = r }
}

func NewPublishingService(
	articles repository.ArticleRepo,
	ledger repository.PublicationRepo,
	registry *adapters.Registry,
	credentials map[models.Platform]string,
	opts ...PublishingOption,
) PublishingService {
	s := &publishingService{
		articles:    articles,
		ledger:      ledger,
		registry:    registry,
		credentials: credentials,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *publishingService) Platforms() []models.PlatformDescriptor {
	return s.registry.Descriptors()
}

func normalizeLanguage(lang models.Language) (models.Language, error) {
	l, ok := models.ParseLanguage(string(lang))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return l, nil
}

func (s *publishingService) credential(platform models.Platform, given string) string {
	if given != "" {
		return given
	}
	return s.credentials[platform]
}

func (s *publishingService) PublishToPlatform(
	ctx context.Context,
	articleID string,
	platform models.Platform,
	credential string,
	lang models.Language,
) (models.PublishResult, error) {
	lang, err := normalizeLanguage(lang)
	if err != nil {
		return models.PublishResult{}, err
	}

	log := logger.WithCtx(ctx).With(
		zap.String("article_id", articleID),
		zap.String("platform", string(platform)),
		zap.String("language", string(lang)),
	)
	log.Info("Публикация статьи")

	article, err := s.articles.GetByID(ctx, articleID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Статья для публикации не найдена")
		return models.PublishResult{}, ErrArticleNotFound
	}
	if err != nil {
		log.Error("Ошибка чтения статьи (repo)", zap.Error(err))
		return models.PublishResult{}, fmt.Errorf("чтение статьи: %w", err)
	}

	adapter, err := s.registry.Resolve(platform)
	if err != nil {
		log.Warn("Платформа не зарегистрирована")
		return models.PublishResult{}, err
	}

	key := models.PublicationKey{ArticleID: articleID, Platform: platform, Language: lang}
	if _, err := s.ledger.UpsertPending(ctx, key); err != nil {
		log.Error("Ошибка записи PENDING в журнал (repo)", zap.Error(err))
		return models.PublishResult{}, fmt.Errorf("журнал публикаций: %w", err)
	}

	view := ResolveContent(article, lang)
	s.rehostImages(ctx, article, &view)

	res := publishSafely(ctx, adapter, view, s.credential(platform, credential))

	if res.Success {
		if err := s.ledger.MarkPublished(ctx, key, res.PlatformID, s.now().UTC()); err != nil {
			log.Error("Публикация прошла, но журнал не обновлён (repo)", zap.String("platform_id", res.PlatformID), zap.Error(err))
			return res, fmt.Errorf("журнал публикаций: %w", err)
		}
		log.Info("Статья опубликована", zap.String("platform_id", res.PlatformID))
		return res, nil
	}

	if res.Error == "" {
		res.Error = "неизвестная ошибка публикации"
	}
	if err := s.ledger.MarkError(ctx, key, res.Error); err != nil {
		log.Error("Ошибка записи ERROR в журнал (repo)", zap.Error(err))
		return res, fmt.Errorf("журнал публикаций: %w", err)
	}
	log.Warn("Публикация не удалась", zap.String("reason", res.Error))
	return res, nil
}

func (s *publishingService) UnpublishFromPlatform(
	ctx context.Context,
	articleID string,
	platform models.Platform,
	credential string,
	lang models.Language,
) error {
	lang, err := normalizeLanguage(lang)
	if err != nil {
		return err
	}

	log := logger.WithCtx(ctx).With(
		zap.String("article_id", articleID),
		zap.String("platform", string(platform)),
		zap.String("language", string(lang)),
	)

	adapter, err := s.registry.Resolve(platform)
	if err != nil {
		log.Warn("Платформа не зарегистрирована")
		return err
	}

	key := models.PublicationKey{ArticleID: articleID, Platform: platform, Language: lang}
	row, err := s.ledger.Find(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug("Снимать нечего: записи в журнале нет")
		return nil
	}
	if err != nil {
		log.Error("Ошибка чтения журнала (repo)", zap.Error(err))
		return fmt.Errorf("журнал публикаций: %w", err)
	}
	if row.PlatformID == nil || *row.PlatformID == "" {
		log.Debug("Снимать нечего: нет внешнего id", zap.String("status", string(row.Status)))
		return nil
	}

	if ok := unpublishSafely(ctx, adapter, articleID, *row.PlatformID, s.credential(platform, credential), lang); !ok {
		// локальный статус сбрасываем всё равно, удалённый объект мог остаться
		log.Warn("Площадка не подтвердила удаление", zap.String("platform_id", *row.PlatformID))
	}

	if err := s.ledger.MarkUnpublished(ctx, key); err != nil {
		log.Error("Ошибка сброса записи журнала (repo)", zap.Error(err))
		return fmt.Errorf("журнал публикаций: %w", err)
	}
	log.Info("Публикация снята", zap.String("platform_id", *row.PlatformID))
	return nil
}

func (s *publishingService) UnpublishAll(ctx context.Context, articleID string) error {
	log := logger.WithCtx(ctx).With(zap.String("article_id", articleID))

	rows, err := s.ledger.ListByArticle(ctx, articleID)
	if err != nil {
		log.Error("Ошибка чтения журнала (repo)", zap.Error(err))
		return fmt.Errorf("журнал публикаций: %w", err)
	}

	var errs error
	for _, p := range rows {
		if err := s.UnpublishFromPlatform(ctx, articleID, p.Platform, "", p.Language); err != nil {
			log.Warn("Не удалось снять публикацию, продолжаем",
				zap.String("platform", string(p.Platform)),
				zap.String("language", string(p.Language)),
				zap.Error(err),
			)
			errs = multierr.Append(errs, fmt.Errorf("%s/%s: %w", p.Platform, p.Language, err))
		}
	}

	log.Info("Снятие всех публикаций завершено", zap.Int("targets", len(rows)), zap.Int("errors", len(multierr.Errors(errs))))
	return errs
}

func (s *publishingService) PublishAll(ctx context.Context, articleID string, targets []models.PublishTarget) ([]models.PublishOutcome, error) {
	log := logger.WithCtx(ctx).With(zap.String("article_id", articleID))

	// сначала проверяем все цели, чтобы не опубликовать половину из-за опечатки
	for _, t := range targets {
		if _, err := s.registry.Resolve(t.Platform); err != nil {
			return nil, err
		}
		if _, err := normalizeLanguage(t.Language); err != nil {
			return nil, err
		}
	}

	outcomes := make([]models.PublishOutcome, 0, len(targets))
	var errs error
	for _, t := range targets {
		lang, _ := normalizeLanguage(t.Language)
		adapter, _ := s.registry.Resolve(t.Platform)
		out := models.PublishOutcome{Platform: t.Platform, Language: lang}

		if !adapter.Descriptor().CouldAutoPublish {
			log.Info("Площадка только для ручной публикации, пропускаем", zap.String("platform", string(t.Platform)))
			out.Skipped = true
			outcomes = append(outcomes, out)
			continue
		}

		res, err := s.PublishToPlatform(ctx, articleID, t.Platform, t.AccessToken, lang)
		if errors.Is(err, ErrArticleNotFound) {
			return nil, err
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s/%s: %w", t.Platform, lang, err))
		}
		out.Result = res
		outcomes = append(outcomes, out)
	}
	return outcomes, errs
}

// publishSafely: паника адаптера превращается в обычную неудачу публикации,
// иначе строка журнала осталась бы в PENDING.
func publishSafely(ctx context.Context, adapter adapters.Adapter, view models.ContentView, credential string) (res models.PublishResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("Паника в адаптере площадки",
				zap.String("platform", string(adapter.Descriptor().Platform)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			res = models.PublishResult{Success: false, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return adapter.Publish(ctx, view, credential)
}

func unpublishSafely(ctx context.Context, adapter adapters.Adapter, articleID, platformID, credential string, lang models.Language) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("Паника в адаптере площадки при снятии",
				zap.String("platform", string(adapter.Descriptor().Platform)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			ok = false
		}
	}()
	return adapter.Unpublish(ctx, articleID, platformID, credential, lang)
}
