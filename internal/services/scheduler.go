package services

import (
	"context"
	"fmt"
	"time"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"
	"contentorchestrator/internal/repository"

	"go.uber.org/zap"
)

type SweepReport struct {
	Due       int
	Claimed   int
	Published int
	Failed    int
}

// PublishScheduler раз в interval публикует статьи, у которых наступил scheduledAt.
// Пропущенные запуски не теряются: просроченные статьи берутся на следующем проходе.
type PublishScheduler struct {
	articles  repository.ArticleRepo
	publisher PublishingService
	target    models.PublishTarget
	interval  time.Duration
	now       func() time.Time
}

func NewPublishScheduler(
	articles repository.ArticleRepo,
	publisher PublishingService,
	target models.PublishTarget,
	interval time.Duration,
) *PublishScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PublishScheduler{
		articles:  articles,
		publisher: publisher,
		target:    target,
		interval:  interval,
		now:       time.Now,
	}
}

// Start запускает периодический проход в отдельной горутине. Возвращает stop.
func (s *PublishScheduler) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	t := time.NewTicker(s.interval)
	go func() {
		defer close(done)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep(ctx, s.now().UTC())
			}
		}
	}()

	logger.Log.Info("Планировщик публикаций запущен",
		zap.Duration("interval", s.interval),
		zap.String("platform", string(s.target.Platform)),
		zap.String("language", string(s.target.Language)),
	)
	return func() {
		cancel()
		<-done
	}
}

// Sweep: один проход. Ошибка по одной статье не прерывает обработку остальных.
func (s *PublishScheduler) Sweep(ctx context.Context, now time.Time) SweepReport {
	var rep SweepReport

	due, err := s.articles.ListDueScheduled(ctx, now)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка выборки запланированных статей (repo)", zap.Error(err))
		return rep
	}
	rep.Due = len(due)

	for _, a := range due {
		claimed, ok := s.publishOne(ctx, a.ID, now)
		if claimed {
			rep.Claimed++
		}
		switch {
		case !claimed:
		case ok:
			rep.Published++
		default:
			rep.Failed++
		}
	}

	if rep.Due > 0 {
		logger.WithCtx(ctx).Info("Проход планировщика завершён",
			zap.Int("due", rep.Due),
			zap.Int("claimed", rep.Claimed),
			zap.Int("published", rep.Published),
			zap.Int("failed", rep.Failed),
		)
	}
	return rep
}

func (s *PublishScheduler) publishOne(ctx context.Context, articleID string, now time.Time) (claimed, ok bool) {
	log := logger.WithCtx(ctx).With(zap.String("article_id", articleID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Паника при плановой публикации", zap.Any("panic", r), zap.Stack("stack"))
			ok = false
		}
	}()

	// расписание снимается до публикации: второй проход эту статью уже не увидит
	claimed, err := s.articles.ClaimScheduled(ctx, articleID, now)
	if err != nil {
		log.Error("Не удалось снять расписание (repo)", zap.Error(err))
		return false, false
	}
	if !claimed {
		log.Debug("Статью уже забрал другой проход")
		return false, false
	}

	res, err := s.publisher.PublishToPlatform(ctx, articleID, s.target.Platform, s.target.AccessToken, s.target.Language)
	if err != nil {
		log.Error("Плановая публикация не удалась", zap.Error(fmt.Errorf("%s: %w", s.target.Platform, err)))
		return true, false
	}
	if !res.Success {
		log.Warn("Площадка отклонила плановую публикацию", zap.String("reason", res.Error))
		return true, false
	}
	log.Info("Плановая публикация выполнена", zap.String("platform_id", res.PlatformID))
	return true, true
}
