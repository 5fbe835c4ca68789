package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"contentorchestrator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublished struct {
	entries []models.FeedEntry
	err     error
	limit   int
}

func (s *stubPublished) ListPublished(_ context.Context, limit int) ([]models.FeedEntry, error) {
	s.limit = limit
	return s.entries, s.err
}

func TestFeedRSS(t *testing.T) {
	a := completedArticle("a1")
	a.MarkdownContent = "# Go\n\nText <script>alert(1)</script>"
	src := &stubPublished{entries: []models.FeedEntry{
		{Article: a, PublishedAt: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)},
	}}
	svc := NewFeedService(src, FeedInfo{
		Title:          "Blog",
		Link:           "https://example.com",
		Description:    "Neueste Artikel",
		ArticleBaseURL: "https://example.com/articles/",
	})

	out, err := svc.RSS(context.Background())
	require.NoError(t, err)

	assert.Equal(t, feedLimit, src.limit)
	assert.Contains(t, out, "<rss")
	assert.Contains(t, out, "<title>Blog</title>")
	assert.Contains(t, out, "<title>Go im Backend</title>")
	assert.Contains(t, out, "https://example.com/articles/go-im-backend")
	assert.Contains(t, out, "Beschreibung")
	assert.Contains(t, out, "Fri, 02 Jan 2026 09:00:00")
	assert.NotContains(t, out, "<script")
}

func TestFeedRSS_Empty(t *testing.T) {
	svc := NewFeedService(&stubPublished{}, FeedInfo{Title: "Blog", Link: "https://example.com"})
	out, err := svc.RSS(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "<channel>")
	assert.NotContains(t, out, "<item>")
}

func TestFeedRSS_RepoError(t *testing.T) {
	svc := NewFeedService(&stubPublished{err: errors.New("db down")}, FeedInfo{})
	_, err := svc.RSS(context.Background())
	assert.Error(t, err)
}
