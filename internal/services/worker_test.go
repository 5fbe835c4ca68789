package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"contentorchestrator/internal/ai"
	"contentorchestrator/internal/models"
	"contentorchestrator/internal/queue"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPayload() *models.GeneratedContent {
	return &models.GeneratedContent{
		MarkdownContent: "# Hallo Welt\n\nText",
		LinkedinTeaser:  "Teaser",
		XingSummary:     "Summary",
		SeoTitle:        "Hallo Welt",
		SeoDescription:  "Beschreibung",
		Slug:            "hallo-welt",
		Category:        "Technologie",
		RawTranscript:   "hello world",
	}
}

func pendingArticle(id string) *models.Article {
	return &models.Article{
		ID:               id,
		Slug:             "draft-1",
		SourceURL:        "https://youtu.be/abc123",
		SourceType:       models.SourceYouTube,
		ProcessingStatus: models.ProcessingPending,
	}
}

func newTestWorker(articles *memArticles, ex Extractor, gen ContentGenerator) *GenerationWorker {
	return NewGenerationWorker(articles,
		map[models.SourceType]Extractor{models.SourceYouTube: ex, models.SourceMedium: ex},
		gen, time.Second, 5*time.Second)
}

func TestWorkerProcess_Completes(t *testing.T) {
	articles := newMemArticles(pendingArticle("a1"))
	ex := &stubExtractor{text: "hello world"}
	gen := &stubGenerator{out: stubPayload()}
	w := newTestWorker(articles, ex, gen)

	err := w.Process(context.Background(), models.GenerationJob{
		ArticleID: "a1", SourceType: models.SourceYouTube, SourceURL: "https://youtu.be/abc123",
	})
	require.NoError(t, err)

	a := articles.get("a1")
	want := stubPayload()
	assert.Equal(t, models.ProcessingCompleted, a.ProcessingStatus)
	assert.Equal(t, want.MarkdownContent, a.MarkdownContent)
	assert.Equal(t, want.LinkedinTeaser, a.LinkedinTeaser)
	assert.Equal(t, want.XingSummary, a.XingSummary)
	assert.Equal(t, want.SeoTitle, a.SeoTitle)
	assert.Equal(t, want.SeoDescription, a.SeoDescription)
	assert.Equal(t, want.Slug, a.Slug)
	assert.Equal(t, want.Category, a.Category)
	assert.Equal(t, want.RawTranscript, a.RawTranscript)

	assert.Equal(t, "https://youtu.be/abc123", ex.url)
	assert.Equal(t, "hello world", gen.input)
	assert.Equal(t, []models.ProcessingStatus{models.ProcessingProcessing, models.ProcessingCompleted}, articles.statusHistory)
}

// генератор, чей ответ пришёл без slug
type missingSlugGenerator struct{}

func (missingSlugGenerator) Generate(context.Context, string) (*models.GeneratedContent, error) {
	return nil, fmt.Errorf("%w: slug", ai.ErrMissingField)
}

func TestWorkerProcess_MissingFieldFailsWithoutOverwrite(t *testing.T) {
	before := pendingArticle("a1")
	before.MarkdownContent = "alter Inhalt"
	articles := newMemArticles(before)
	w := newTestWorker(articles, &stubExtractor{text: "hello world"}, missingSlugGenerator{})

	err := w.Process(context.Background(), models.GenerationJob{
		ArticleID: "a1", SourceType: models.SourceYouTube, SourceURL: "https://youtu.be/abc123",
	})
	require.ErrorIs(t, err, ai.ErrMissingField)

	a := articles.get("a1")
	assert.Equal(t, models.ProcessingFailed, a.ProcessingStatus)
	assert.Equal(t, "alter Inhalt", a.MarkdownContent)
	assert.Equal(t, "draft-1", a.Slug)
	assert.Empty(t, a.LinkedinTeaser)
	assert.Empty(t, a.RawTranscript)
}

func TestWorkerProcess_ExtractionFailure(t *testing.T) {
	articles := newMemArticles(pendingArticle("a1"))
	gen := &stubGenerator{out: stubPayload()}
	w := newTestWorker(articles, &stubExtractor{err: errors.New("transcript service down")}, gen)

	err := w.Process(context.Background(), models.GenerationJob{ArticleID: "a1", SourceType: models.SourceYouTube})
	require.Error(t, err)
	assert.Equal(t, models.ProcessingFailed, articles.get("a1").ProcessingStatus)
	assert.Empty(t, gen.input)
}

func TestWorkerProcess_EmptyRawTranscriptFallsBackToExtractedText(t *testing.T) {
	articles := newMemArticles(pendingArticle("a1"))
	payload := stubPayload()
	payload.RawTranscript = ""
	w := newTestWorker(articles, &stubExtractor{text: "extracted text"}, &stubGenerator{out: payload})

	require.NoError(t, w.Process(context.Background(), models.GenerationJob{ArticleID: "a1", SourceType: models.SourceMedium}))
	assert.Equal(t, "extracted text", articles.get("a1").RawTranscript)
}

func TestWorkerProcess_UnknownSourceType(t *testing.T) {
	articles := newMemArticles(pendingArticle("a1"))
	w := NewGenerationWorker(articles, map[models.SourceType]Extractor{}, &stubGenerator{out: stubPayload()}, time.Second, time.Second)

	err := w.Process(context.Background(), models.GenerationJob{ArticleID: "a1", SourceType: models.SourceYouTube})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, models.ProcessingFailed, articles.get("a1").ProcessingStatus)
}

func TestWorkerProcess_DeletedArticleIsSkipped(t *testing.T) {
	ex := &stubExtractor{text: "hello world"}
	w := newTestWorker(newMemArticles(), ex, &stubGenerator{out: stubPayload()})

	require.NoError(t, w.Process(context.Background(), models.GenerationJob{ArticleID: "gone", SourceType: models.SourceYouTube}))
	assert.Zero(t, ex.calls)
}

func TestWorkerProcess_ReprocessOverwrites(t *testing.T) {
	a := completedArticle("a1")
	articles := newMemArticles(a)
	w := newTestWorker(articles, &stubExtractor{text: "hello world"}, &stubGenerator{out: stubPayload()})

	require.NoError(t, w.Process(context.Background(), models.GenerationJob{ArticleID: "a1", SourceType: models.SourceYouTube}))
	assert.Equal(t, "hallo-welt", articles.get("a1").Slug)
	assert.Equal(t, "Teaser", articles.get("a1").LinkedinTeaser)
}

func TestWorkerRun_AcksAndDeadLetters(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q := queue.NewRedisQueue(rdb, "content-queue", "w1", 1)
	ctx := context.Background()

	articles := newMemArticles(pendingArticle("ok"), pendingArticle("bad"))
	articles.rows["bad"].SourceType = models.SourceMedium

	ok := &stubExtractor{text: "hello world"}
	bad := &stubExtractor{err: errors.New("mirror unreachable")}
	w := NewGenerationWorker(articles,
		map[models.SourceType]Extractor{models.SourceYouTube: ok, models.SourceMedium: bad},
		&stubGenerator{out: stubPayload()}, time.Second, time.Second)
	w.pollTimeout = 100 * time.Millisecond

	require.NoError(t, q.Enqueue(ctx, models.GenerationJob{ArticleID: "ok", SourceType: models.SourceYouTube}))
	require.NoError(t, q.Enqueue(ctx, models.GenerationJob{ArticleID: "bad", SourceType: models.SourceMedium}))

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		w.Run(runCtx, q, 2)
		close(done)
	}()

	require.Eventually(t, func() bool {
		n, _ := rdb.LLen(ctx, q.FailedKey()).Result()
		return n == 1 && articles.get("ok").ProcessingStatus == models.ProcessingCompleted
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("воркеры не остановились")
	}

	assert.Equal(t, models.ProcessingFailed, articles.get("bad").ProcessingStatus)
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	processing, err := rdb.LLen(ctx, "content-queue:processing:w1").Result()
	require.NoError(t, err)
	assert.Zero(t, processing)
}
