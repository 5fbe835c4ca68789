package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"
	"contentorchestrator/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobQueue: сторона производителя очереди генерации.
type JobQueue interface {
	Enqueue(ctx context.Context, job models.GenerationJob) error
}

type Translator interface {
	Translate(ctx context.Context, src models.Translation) (*models.Translation, error)
}

type ContentService interface {
	Create(ctx context.Context, req models.CreateArticleRequest) (*models.Article, error)
	Get(ctx context.Context, id string) (*models.ArticleDetails, error)
	List(ctx context.Context, limit, offset int) ([]*models.Article, error)
	Update(ctx context.Context, id string, req models.UpdateArticleRequest) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	Reprocess(ctx context.Context, id string) (*models.Article, error)
	Translate(ctx context.Context, id string) (*models.Article, error)
	ShareLinks(ctx context.Context, id string) (*models.ShareLinks, error)
}

type contentService struct {
	articles   repository.ArticleRepo
	ledger     repository.PublicationRepo
	publisher  PublishingService
	queue      JobQueue
	translator Translator
	// база публичных ссылок на статьи, к ней добавляется slug
	articleBaseURL string
	now            func() time.Time
}

func NewContentService(
	articles repository.ArticleRepo,
	ledger repository.PublicationRepo,
	publisher PublishingService,
	queue JobQueue,
	translator Translator,
	articleBaseURL string,
) ContentService {
	return &contentService{
		articles:       articles,
		ledger:         ledger,
		publisher:      publisher,
		queue:          queue,
		translator:     translator,
		articleBaseURL: strings.TrimRight(articleBaseURL, "/"),
		now:            time.Now,
	}
}

func makeSlug(title string, now time.Time) string {
	if parts := strings.Fields(strings.ToLower(title)); len(parts) > 0 {
		return strings.Join(parts, "-")
	}
	return "draft-" + strconv.FormatInt(now.UnixMilli(), 10)
}

func validSourceURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *contentService) Create(ctx context.Context, req models.CreateArticleRequest) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание статьи", zap.String("source_type", string(req.Type)), zap.String("url", req.URL))

	if !validSourceURL(req.URL) {
		log.Warn("Валидация не пройдена: url")
		return nil, fmt.Errorf("%w: url должен быть http(s)-ссылкой", ErrInvalidInput)
	}
	if !req.Type.Valid() {
		log.Warn("Валидация не пройдена: тип источника", zap.String("type", string(req.Type)))
		return nil, fmt.Errorf("%w: тип должен быть YOUTUBE или MEDIUM", ErrInvalidInput)
	}

	title := strings.TrimSpace(req.Title)
	a := &models.Article{
		ID:               uuid.NewString(),
		Title:            title,
		Slug:             makeSlug(title, s.now()),
		SourceURL:        strings.TrimSpace(req.URL),
		SourceType:       req.Type,
		ProcessingStatus: models.ProcessingPending,
	}

	created, err := s.articles.Create(ctx, a)
	if err != nil {
		log.Error("Ошибка создания статьи (repo)", zap.Error(err))
		return nil, err
	}

	if err := s.enqueue(ctx, created); err != nil {
		return nil, err
	}

	log.Info("Статья создана, задача генерации поставлена", zap.String("article_id", created.ID))
	return created, nil
}

// enqueue ставит задачу генерации. Если очередь недоступна, статья
// помечается FAILED, чтобы не висеть в PENDING вечно.
func (s *contentService) enqueue(ctx context.Context, a *models.Article) error {
	job := models.GenerationJob{ArticleID: a.ID, SourceType: a.SourceType, SourceURL: a.SourceURL}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		logger.WithCtx(ctx).Error("Ошибка постановки задачи в очередь",
			zap.String("article_id", a.ID), zap.Error(err))
		if serr := s.articles.SetProcessingStatus(ctx, a.ID, models.ProcessingFailed); serr != nil {
			logger.WithCtx(ctx).Error("Не удалось пометить статью FAILED (repo)",
				zap.String("article_id", a.ID), zap.Error(serr))
		}
		a.ProcessingStatus = models.ProcessingFailed
		return fmt.Errorf("постановка в очередь: %w", err)
	}
	return nil
}

func (s *contentService) load(ctx context.Context, id string) (*models.Article, error) {
	a, err := s.articles.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("чтение статьи: %w", err)
	}
	return a, nil
}

func (s *contentService) Get(ctx context.Context, id string) (*models.ArticleDetails, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение статьи по ID", zap.String("article_id", id))

	a, err := s.load(ctx, id)
	if err != nil {
		log.Warn("Статья не найдена", zap.String("article_id", id), zap.Error(err))
		return nil, err
	}

	pubs, err := s.ledger.ListByArticle(ctx, id)
	if err != nil {
		log.Error("Ошибка чтения журнала публикаций (repo)", zap.String("article_id", id), zap.Error(err))
		return nil, err
	}

	return &models.ArticleDetails{
		Article:            a,
		Publications:       pubs,
		AvailablePlatforms: s.publisher.Platforms(),
	}, nil
}

func (s *contentService) List(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение списка статей", zap.Int("limit", limit), zap.Int("offset", offset))

	list, err := s.articles.List(ctx, limit, offset)
	if err != nil {
		log.Error("Ошибка получения списка статей (repo)", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// patchFromRequest переводит запрос редактора в патч. Правила расписания:
// SCHEDULED требует scheduledAt, DRAFT и PUBLISHED снимают расписание,
// пустой scheduledAt тоже снимает.
func patchFromRequest(req models.UpdateArticleRequest) (models.ArticlePatch, error) {
	p := models.ArticlePatch{
		Title:             req.Title,
		Slug:              req.Slug,
		MarkdownContent:   req.MarkdownContent,
		LinkedinTeaser:    req.LinkedinTeaser,
		XingSummary:       req.XingSummary,
		SeoTitle:          req.SeoTitle,
		SeoDescription:    req.SeoDescription,
		Category:          req.Category,
		OgImageURL:        req.OgImageURL,
		TitleEn:           req.TitleEn,
		MarkdownContentEn: req.MarkdownContentEn,
		LinkedinTeaserEn:  req.LinkedinTeaserEn,
		XingSummaryEn:     req.XingSummaryEn,
		SeoTitleEn:        req.SeoTitleEn,
		SeoDescriptionEn:  req.SeoDescriptionEn,
	}

	parseAt := func() (*time.Time, error) {
		if req.ScheduledAt == nil || strings.TrimSpace(*req.ScheduledAt) == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.ScheduledAt))
		if err != nil {
			return nil, fmt.Errorf("%w: scheduledAt должен быть в RFC3339", ErrInvalidInput)
		}
		t = t.UTC()
		return &t, nil
	}

	status := ""
	if req.Status != nil {
		status = strings.ToUpper(strings.TrimSpace(*req.Status))
	}

	switch status {
	case "SCHEDULED":
		at, err := parseAt()
		if err != nil {
			return p, err
		}
		if at == nil {
			return p, fmt.Errorf("%w: для SCHEDULED нужен scheduledAt", ErrInvalidInput)
		}
		p.ScheduledAt = at
	case "DRAFT", "PUBLISHED":
		p.ClearSchedule = true
	case "":
		if req.ScheduledAt != nil {
			at, err := parseAt()
			if err != nil {
				return p, err
			}
			if at == nil {
				p.ClearSchedule = true
			} else {
				p.ScheduledAt = at
			}
		}
	default:
		return p, fmt.Errorf("%w: неизвестный статус %q", ErrInvalidInput, status)
	}
	return p, nil
}

func (s *contentService) Update(ctx context.Context, id string, req models.UpdateArticleRequest) (*models.Article, error) {
	log := logger.WithCtx(ctx).With(zap.String("article_id", id))
	log.Info("Обновление статьи")

	patch, err := patchFromRequest(req)
	if err != nil {
		log.Warn("Валидация не пройдена", zap.Error(err))
		return nil, err
	}

	if patch.Empty() {
		return s.load(ctx, id)
	}

	a, err := s.articles.Update(ctx, id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Статья для обновления не найдена")
		return nil, ErrArticleNotFound
	}
	if err != nil {
		log.Error("Ошибка обновления статьи (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Статья обновлена", zap.Bool("scheduled", a.ScheduledAt != nil))
	return a, nil
}

// Delete сначала снимает все публикации через площадки, потом удаляет статью.
// Ошибки снятия не мешают удалению.
func (s *contentService) Delete(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx).With(zap.String("article_id", id))
	log.Info("Удаление статьи")

	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.publisher.UnpublishAll(ctx, id); err != nil {
		log.Warn("Часть публикаций не снята, удаляем статью всё равно", zap.Error(err))
	}

	if err := s.articles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrArticleNotFound
		}
		log.Error("Ошибка удаления статьи (repo)", zap.Error(err))
		return err
	}

	log.Info("Статья удалена")
	return nil
}

// Reprocess запускает генерацию заново; прежний контент будет перезаписан.
func (s *contentService) Reprocess(ctx context.Context, id string) (*models.Article, error) {
	log := logger.WithCtx(ctx).With(zap.String("article_id", id))
	log.Info("Повторная генерация")

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.articles.SetProcessingStatus(ctx, id, models.ProcessingPending); err != nil {
		log.Error("Ошибка сброса статуса (repo)", zap.Error(err))
		return nil, err
	}
	a.ProcessingStatus = models.ProcessingPending

	if err := s.enqueue(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *contentService) Translate(ctx context.Context, id string) (*models.Article, error) {
	log := logger.WithCtx(ctx).With(zap.String("article_id", id))
	log.Info("Перевод статьи на английский")

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ProcessingStatus != models.ProcessingCompleted {
		return nil, fmt.Errorf("%w: генерация не завершена (%s)", ErrInvalidInput, a.ProcessingStatus)
	}

	tr, err := s.translator.Translate(ctx, models.Translation{
		Title:           a.Title,
		MarkdownContent: a.MarkdownContent,
		LinkedinTeaser:  a.LinkedinTeaser,
		XingSummary:     a.XingSummary,
		SeoTitle:        a.SeoTitle,
		SeoDescription:  a.SeoDescription,
	})
	if err != nil {
		log.Error("Ошибка перевода", zap.Error(err))
		return nil, fmt.Errorf("перевод: %w", err)
	}

	if err := s.articles.SaveTranslation(ctx, id, tr); err != nil {
		log.Error("Ошибка сохранения перевода (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Перевод сохранён")
	return s.load(ctx, id)
}

// ShareLinks: публичная ссылка на статью и ссылки «поделиться» для ручной публикации.
func (s *contentService) ShareLinks(ctx context.Context, id string) (*models.ShareLinks, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Slug) == "" {
		return nil, fmt.Errorf("%w: у статьи нет slug", ErrInvalidInput)
	}

	link := s.articleBaseURL + "/" + a.Slug
	q := url.QueryEscape(link)
	return &models.ShareLinks{
		URL:      link,
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + q,
		Xing:     "https://www.xing.com/spi/shares/new?url=" + q,
	}, nil
}
