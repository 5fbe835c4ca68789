package services

import (
	"context"
	"regexp"
	"strings"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/media"
	"contentorchestrator/internal/models"

	"go.uber.org/zap"
)

var markdownImage = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// rehostImages переносит локальные картинки (og-картинку и картинки в markdown)
// во внешнее хранилище и сохраняет новые ссылки в статье, чтобы не загружать их повторно.
// Сбой переноса публикацию не останавливает: остаётся старая ссылка.
func (s *publishingService) rehostImages(ctx context.Context, article *models.Article, view *models.ContentView) {
	if s.images == nil {
		return
	}
	log := logger.WithCtx(ctx).With(zap.String("article_id", article.ID))

	var patch models.ArticlePatch

	if media.IsLocal(view.OgImageURL) {
		log.Info("Перенос og-картинки в CMS")
		if link, err := s.images.Rehost(ctx, view.OgImageURL, view.Title+" OG Image", view.Title); err != nil {
			log.Warn("Не удалось перенести og-картинку", zap.String("url", view.OgImageURL), zap.Error(err))
		} else {
			view.OgImageURL = link
			patch.OgImageURL = &link
		}
	}

	markdown, changed := s.rehostMarkdown(ctx, view.MarkdownContent, view.Title)
	if changed {
		view.MarkdownContent = markdown
		// пишем в то поле, из которого взят текст для этого языка
		if view.Language != models.PrimaryLanguage && strings.TrimSpace(article.MarkdownContentEn) != "" {
			patch.MarkdownContentEn = &markdown
		} else {
			patch.MarkdownContent = &markdown
		}
	}

	if patch.Empty() {
		return
	}
	if _, err := s.articles.Update(ctx, article.ID, patch); err != nil {
		log.Error("Картинки перенесены, но ссылки в статье не обновлены (repo)", zap.Error(err))
	}
}

func (s *publishingService) rehostMarkdown(ctx context.Context, markdown, title string) (string, bool) {
	changed := false
	for _, m := range markdownImage.FindAllStringSubmatch(markdown, -1) {
		full, alt, link := m[0], m[1], m[2]
		if !media.IsLocal(link) {
			continue
		}
		newLink, err := s.images.Rehost(ctx, link, alt, title)
		if err != nil {
			logger.WithCtx(ctx).Warn("Не удалось перенести картинку", zap.String("url", link), zap.Error(err))
			continue
		}
		markdown = strings.Replace(markdown, full, "!["+alt+"]("+newLink+")", 1)
		changed = true
	}
	return markdown, changed
}
