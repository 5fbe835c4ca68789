package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"
	"contentorchestrator/internal/queue"
	"contentorchestrator/internal/repository"
	"contentorchestrator/internal/reqctx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Extractor достаёт исходный текст по ссылке (транскрипт видео или текст статьи).
type Extractor interface {
	Extract(ctx context.Context, sourceURL string) (string, error)
}

type ContentGenerator interface {
	Generate(ctx context.Context, rawText string) (*models.GeneratedContent, error)
}

// JobSource: сторона потребителя очереди генерации.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Delivery, error)
	Ack(ctx context.Context, d *queue.Delivery) error
	Fail(ctx context.Context, d *queue.Delivery, cause error) (bool, error)
}

type GenerationWorker struct {
	articles       repository.ArticleRepo
	extractors     map[models.SourceType]Extractor
	generator      ContentGenerator
	extractTimeout time.Duration
	jobTimeout     time.Duration
	pollTimeout    time.Duration
}

func NewGenerationWorker(
	articles repository.ArticleRepo,
	extractors map[models.SourceType]Extractor,
	generator ContentGenerator,
	extractTimeout, jobTimeout time.Duration,
) *GenerationWorker {
	return &GenerationWorker{
		articles:       articles,
		extractors:     extractors,
		generator:      generator,
		extractTimeout: extractTimeout,
		jobTimeout:     jobTimeout,
		pollTimeout:    5 * time.Second,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Process выполняет одну задачу за один проход, без внутренних повторов.
// Ошибка возвращается наверх, чтобы очередь учла неудачную попытку.
func (w *GenerationWorker) Process(ctx context.Context, job models.GenerationJob) error {
	log := logger.WithCtx(ctx).With(
		zap.String("article_id", job.ArticleID),
		zap.String("source_type", string(job.SourceType)),
	)

	if _, err := w.articles.GetByID(ctx, job.ArticleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// статью удалили, пока задача ждала в очереди
			log.Warn("Статья для генерации не найдена, задача пропущена")
			return nil
		}
		log.Error("Ошибка чтения статьи (repo)", zap.Error(err))
		return err
	}

	ctx, cancel := withTimeout(ctx, w.jobTimeout)
	defer cancel()

	if err := w.articles.SetProcessingStatus(ctx, job.ArticleID, models.ProcessingProcessing); err != nil {
		log.Error("Не удалось выставить PROCESSING (repo)", zap.Error(err))
		return err
	}
	log.Info("Генерация начата")
	start := time.Now()

	if err := w.run(ctx, job); err != nil {
		// контекст задачи мог истечь, статус пишем в любом случае
		if serr := w.articles.SetProcessingStatus(context.WithoutCancel(ctx), job.ArticleID, models.ProcessingFailed); serr != nil {
			log.Error("Не удалось выставить FAILED (repo)", zap.Error(serr))
		}
		log.Error("Генерация завершилась ошибкой", zap.Error(err), zap.Duration("took", time.Since(start)))
		return err
	}

	log.Info("Генерация завершена", zap.Duration("took", time.Since(start)))
	return nil
}

func (w *GenerationWorker) run(ctx context.Context, job models.GenerationJob) error {
	ex, ok := w.extractors[job.SourceType]
	if !ok {
		return fmt.Errorf("%w: нет экстрактора для %q", ErrInvalidInput, job.SourceType)
	}

	ectx, cancel := withTimeout(ctx, w.extractTimeout)
	raw, err := ex.Extract(ectx, job.SourceURL)
	cancel()
	if err != nil {
		return fmt.Errorf("извлечение текста: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("извлечение текста: пустой результат")
	}
	logger.WithCtx(ctx).Debug("Текст извлечён", zap.String("article_id", job.ArticleID), zap.Int("chars", len(raw)))

	gen, err := w.generator.Generate(ctx, raw)
	if err != nil {
		return fmt.Errorf("генерация: %w", err)
	}
	if gen.RawTranscript == "" {
		gen.RawTranscript = raw
	}

	if err := w.articles.SaveGenerated(ctx, job.ArticleID, gen); err != nil {
		return fmt.Errorf("сохранение результата: %w", err)
	}
	return nil
}

// Run запускает concurrency воркеров и блокируется до отмены ctx.
func (w *GenerationWorker) Run(ctx context.Context, src JobSource, concurrency int) {
	if concurrency < 1 {
		concurrency = 1
	}
	logger.Log.Info("Запуск воркеров генерации", zap.Int("concurrency", concurrency))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			w.loop(ctx, src, n)
		}(i)
	}
	wg.Wait()
	logger.Log.Info("Воркеры генерации остановлены")
}

func (w *GenerationWorker) loop(ctx context.Context, src JobSource, n int) {
	for ctx.Err() == nil {
		d, err := src.Dequeue(ctx, w.pollTimeout)
		if errors.Is(err, queue.ErrEmpty) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.Error("Ошибка чтения очереди", zap.Int("worker", n), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		w.handle(ctx, src, d)
	}
}

func (w *GenerationWorker) handle(ctx context.Context, src JobSource, d *queue.Delivery) {
	jobID := d.ID
	if jobID == "" {
		jobID = uuid.NewString()
	}
	jctx := reqctx.WithJobID(ctx, jobID)
	log := logger.WithCtx(jctx).With(zap.String("article_id", d.Job.ArticleID), zap.Int("attempt", d.Attempt))

	perr := w.Process(jctx, d.Job)

	// подтверждение не должно теряться при остановке воркера
	qctx := context.WithoutCancel(jctx)
	if perr == nil {
		if err := src.Ack(qctx, d); err != nil {
			log.Error("Не удалось подтвердить задачу", zap.Error(err))
		}
		return
	}

	requeued, err := src.Fail(qctx, d, perr)
	if err != nil {
		log.Error("Не удалось отметить задачу как неудачную", zap.Error(err))
		return
	}
	if requeued {
		log.Warn("Задача возвращена в очередь", zap.Error(perr))
	} else {
		log.Warn("Задача исчерпала попытки", zap.Error(perr))
	}
}
