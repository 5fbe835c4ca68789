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

type LinkedIn struct {
	baseURL    string
	articleURL string
	client     *http.Client
}

var _ Adapter = (*LinkedIn)(nil)

// NewLinkedIn: по articleBaseURL строится публичная ссылка на
// статью, она прикладывается к посту.
func NewLinkedIn(baseURL, articleBaseURL string, timeout time.Duration) *LinkedIn {
	return &LinkedIn{
		baseURL:    strings.TrimRight(baseURL, "/"),
		articleURL: strings.TrimRight(articleBaseURL, "/"),
		client:     newHTTPClient(timeout),
	}
}

func (l *LinkedIn) Descriptor() models.PlatformDescriptor {
	return models.PlatformDescriptor{Platform: models.PlatformLinkedIn, Name: "LinkedIn", CouldAutoPublish: true}
}

func (l *LinkedIn) link(view models.ContentView) string {
	if l.articleURL != "" && view.Slug != "" {
		return l.articleURL + "/" + view.Slug
	}
	return view.SourceURL
}

func (l *LinkedIn) Publish(ctx context.Context, view models.ContentView, credential string) models.PublishResult {
	if credential == "" {
		return failed("для LinkedIn нужен access token")
	}
	if strings.TrimSpace(view.LinkedinTeaser) == "" {
		return failed("у статьи нет текста для LinkedIn (linkedinTeaser)")
	}

	log := logger.WithCtx(ctx).With(zap.String("article_id", view.ArticleID), zap.String("platform", string(models.PlatformLinkedIn)))

	var me struct {
		ID string `json:"id"`
	}
	if _, err := doJSON(ctx, l.client, http.MethodGet, l.baseURL+"/v2/me", bearer(credential), nil, &me); err != nil {
		log.Warn("LinkedIn: не удалось получить профиль", zap.Error(err))
		return failed("LinkedIn: профиль недоступен: %v", err)
	}
	if me.ID == "" {
		return failed("LinkedIn: в ответе /v2/me нет id")
	}

	body := map[string]any{
		"author":         "urn:li:person:" + me.ID,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]string{"text": view.LinkedinTeaser},
				"shareMediaCategory": "ARTICLE",
				"media": []map[string]any{{
					"status":      "READY",
					"originalUrl": l.link(view),
					"title":       map[string]string{"text": view.Title},
				}},
			},
		},
		"visibility": map[string]string{"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"},
	}

	headers := bearer(credential)
	headers["X-Restli-Protocol-Version"] = "2.0.0"

	var created struct {
		ID string `json:"id"`
	}
	h, err := doJSON(ctx, l.client, http.MethodPost, l.baseURL+"/v2/ugcPosts", headers, body, &created)
	if err != nil {
		log.Warn("LinkedIn: ошибка публикации", zap.Error(err))
		return failed("LinkedIn: %v", err)
	}

	id := created.ID
	if id == "" {
		id = h.Get("X-Restli-Id")
	}
	if id == "" {
		return failed("LinkedIn: площадка не вернула id поста")
	}
	return published(id)
}

func (l *LinkedIn) Unpublish(ctx context.Context, articleID, platformID, credential string, _ models.Language) bool {
	log := logger.WithCtx(ctx).With(zap.String("article_id", articleID), zap.String("platform", string(models.PlatformLinkedIn)))
	if credential == "" {
		log.Warn("LinkedIn: снятие без access token невозможно")
		return false
	}

	headers := bearer(credential)
	headers["X-Restli-Protocol-Version"] = "2.0.0"
	endpoint := l.baseURL + "/v2/ugcPosts/" + url.PathEscape(platformID)
	if _, err := doJSON(ctx, l.client, http.MethodDelete, endpoint, headers, nil, nil); err != nil {
		log.Warn("LinkedIn: ошибка удаления поста", zap.String("platform_id", platformID), zap.Error(err))
		return false
	}
	return true
}
