package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"

	"github.com/gorilla/feeds"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

const feedLimit = 50

// PublishedLister: выборка статей с живыми публикациями, новые сверху.
type PublishedLister interface {
	ListPublished(ctx context.Context, limit int) ([]models.FeedEntry, error)
}

type FeedInfo struct {
	Title       string
	Link        string
	Description string
	// база ссылок на статьи, к ней добавляется slug
	ArticleBaseURL string
}

type FeedService interface {
	RSS(ctx context.Context) (string, error)
}

type feedService struct {
	articles PublishedLister
	info     FeedInfo
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	now      func() time.Time
}

func NewFeedService(articles PublishedLister, info FeedInfo) FeedService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return &feedService{
		articles: articles,
		info:     info,
		md:       goldmark.New(),
		policy:   p,
		now:      time.Now,
	}
}

func (s *feedService) renderHTML(markdown string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		logger.Log.Warn("Ошибка рендера markdown, отдаём как есть", zap.Error(err))
		return s.policy.Sanitize(markdown)
	}
	return s.policy.Sanitize(buf.String())
}

func (s *feedService) RSS(ctx context.Context) (string, error) {
	log := logger.WithCtx(ctx)

	entries, err := s.articles.ListPublished(ctx, feedLimit)
	if err != nil {
		log.Error("Ошибка выборки опубликованных статей (repo)", zap.Error(err))
		return "", err
	}

	feed := &feeds.Feed{
		Title:       s.info.Title,
		Link:        &feeds.Link{Href: s.info.Link},
		Description: s.info.Description,
		Created:     s.now().UTC(),
	}

	base := strings.TrimRight(s.info.ArticleBaseURL, "/")
	for _, e := range entries {
		a := e.Article
		created := e.PublishedAt
		if created.IsZero() {
			created = a.CreatedAt
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          a.ID,
			Title:       a.Title,
			Link:        &feeds.Link{Href: base + "/" + a.Slug},
			Description: a.SeoDescription,
			Content:     s.renderHTML(a.MarkdownContent),
			Created:     created,
		})
	}

	out, err := feed.ToRss()
	if err != nil {
		log.Error("Ошибка сборки RSS", zap.Error(err))
		return "", err
	}

	log.Debug("RSS собран", zap.Int("items", len(feed.Items)))
	return out, nil
}
