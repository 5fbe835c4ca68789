package adapters

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"

	"go.uber.org/zap"
)

// Medium публикует markdown с canonicalUrl на исходную статью сайта.
// API Medium не умеет удалять посты: Unpublish всегда false.
type Medium struct {
	baseURL    string
	articleURL string
	client     *http.Client
}

var _ Adapter = (*Medium)(nil)

func NewMedium(baseURL, articleBaseURL string, timeout time.Duration) *Medium {
	return &Medium{
		baseURL:    strings.TrimRight(baseURL, "/"),
		articleURL: strings.TrimRight(articleBaseURL, "/"),
		client:     newHTTPClient(timeout),
	}
}

func (m *Medium) Descriptor() models.PlatformDescriptor {
	return models.PlatformDescriptor{Platform: models.PlatformMedium, Name: "Medium", CouldAutoPublish: true}
}

func (m *Medium) Publish(ctx context.Context, view models.ContentView, credential string) models.PublishResult {
	if credential == "" {
		return failed("для Medium нужен integration token")
	}
	if strings.TrimSpace(view.MarkdownContent) == "" {
		return failed("у статьи нет markdown-контента")
	}

	log := logger.WithCtx(ctx).With(zap.String("article_id", view.ArticleID), zap.String("platform", string(models.PlatformMedium)))

	var me struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if _, err := doJSON(ctx, m.client, http.MethodGet, m.baseURL+"/v1/me", bearer(credential), nil, &me); err != nil {
		log.Warn("Medium: не удалось получить пользователя", zap.Error(err))
		return failed("Medium: пользователь недоступен: %v", err)
	}
	if me.Data.ID == "" {
		return failed("Medium: в ответе /v1/me нет id")
	}

	body := map[string]any{
		"title":         view.Title,
		"contentFormat": "markdown",
		"content":       view.MarkdownContent,
		"publishStatus": "public",
	}
	if m.articleURL != "" && view.Slug != "" {
		body["canonicalUrl"] = m.articleURL + "/" + view.Slug
	}
	if view.Category != "" {
		body["tags"] = []string{view.Category}
	}

	var created struct {
		Data struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"data"`
	}
	endpoint := m.baseURL + "/v1/users/" + url.PathEscape(me.Data.ID) + "/posts"
	if _, err := doJSON(ctx, m.client, http.MethodPost, endpoint, bearer(credential), body, &created); err != nil {
		log.Warn("Medium: ошибка публикации", zap.Error(err))
		return failed("Medium: %v", err)
	}
	if created.Data.ID == "" {
		return failed("Medium: площадка не вернула id поста")
	}
	return published(created.Data.ID)
}

func (m *Medium) Unpublish(ctx context.Context, articleID, platformID, _ string, _ models.Language) bool {
	logger.WithCtx(ctx).Info("Medium: удаление через API не поддерживается, пост нужно снять вручную",
		zap.String("article_id", articleID), zap.String("platform_id", platformID))
	return false
}
