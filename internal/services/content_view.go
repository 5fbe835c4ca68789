package services

import (
	"strings"

	"contentorchestrator/internal/models"
)

// ResolveContent выбирает поля под язык публикации. Вариант на втором языке
// берётся, только если он не пустой; иначе остаётся основной текст.
func ResolveContent(a *models.Article, lang models.Language) models.ContentView {
	pick := func(primary, secondary string) string {
		if lang != models.PrimaryLanguage && strings.TrimSpace(secondary) != "" {
			return secondary
		}
		return primary
	}

	return models.ContentView{
		ArticleID:       a.ID,
		Language:        lang,
		Title:           pick(a.Title, a.TitleEn),
		Slug:            a.Slug,
		SourceURL:       a.SourceURL,
		MarkdownContent: pick(a.MarkdownContent, a.MarkdownContentEn),
		LinkedinTeaser:  pick(a.LinkedinTeaser, a.LinkedinTeaserEn),
		XingSummary:     pick(a.XingSummary, a.XingSummaryEn),
		SeoTitle:        pick(a.SeoTitle, a.SeoTitleEn),
		SeoDescription:  pick(a.SeoDescription, a.SeoDescriptionEn),
		Category:        a.Category,
		OgImageURL:      a.OgImageURL,
		CreatedAt:       a.CreatedAt,
	}
}
