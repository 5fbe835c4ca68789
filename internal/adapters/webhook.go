package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"

	"go.uber.org/zap"
)

// Webhook отправляет статью на собственный сайт. Авторизация через заголовок x-api-key.
type Webhook struct {
	endpoint string
	apiKey   string
	client   *http.Client
	now      func() time.Time
}

var _ Adapter = (*Webhook)(nil)

func NewWebhook(endpoint, apiKey string, timeout time.Duration) *Webhook {
	return &Webhook{endpoint: endpoint, apiKey: apiKey, client: newHTTPClient(timeout), now: time.Now}
}

func (w *Webhook) Descriptor() models.PlatformDescriptor {
	return models.PlatformDescriptor{Platform: models.PlatformWebhook, Name: "Website", CouldAutoPublish: true}
}

type webhookPayload struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Date     string `json:"date"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Excerpt  string `json:"excerpt"`
	Locale   string `json:"locale"`
}

func (w *Webhook) Publish(ctx context.Context, view models.ContentView, _ string) models.PublishResult {
	if w.endpoint == "" || w.apiKey == "" {
		return failed("webhook не настроен (WEBHOOK_URL / WEBHOOK_API_KEY)")
	}
	if strings.TrimSpace(view.MarkdownContent) == "" {
		return failed("у статьи нет markdown-контента")
	}

	slug := view.Slug
	if slug == "" {
		slug = view.ArticleID
	}
	category := view.Category
	if category == "" {
		category = "General"
	}

	payload := webhookPayload{
		Title:    view.Title,
		Slug:     slug,
		Date:     w.now().UTC().Format("2006-01-02"),
		Content:  view.MarkdownContent,
		Category: category,
		Excerpt:  excerpt(view),
		Locale:   strings.ToLower(string(view.Language)),
	}

	_, err := doJSON(ctx, w.client, http.MethodPost, w.endpoint, map[string]string{"x-api-key": w.apiKey}, payload, nil)
	if err != nil {
		logger.WithCtx(ctx).Warn("Webhook: ошибка публикации",
			zap.String("article_id", view.ArticleID), zap.Error(err))
		return models.PublishResult{Success: false, Error: webhookError(err)}
	}
	return published(slug)
}

func webhookError(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		switch he.StatusCode {
		case http.StatusUnauthorized:
			return "Unauthorized: API Key invalid"
		case http.StatusTooManyRequests:
			return "Rate limit exceeded"
		}
	}
	return "Webhook: " + err.Error()
}

func excerpt(view models.ContentView) string {
	if view.SeoDescription != "" {
		return view.SeoDescription
	}
	s := strings.Join(strings.Fields(view.MarkdownContent), " ")
	if utf8.RuneCountInString(s) <= 200 {
		return s
	}
	return string([]rune(s)[:200]) + "…"
}

func (w *Webhook) Unpublish(ctx context.Context, articleID, platformID, _ string, lang models.Language) bool {
	if w.endpoint == "" || w.apiKey == "" {
		return false
	}

	u, err := url.Parse(w.endpoint)
	if err != nil {
		return false
	}
	q := u.Query()
	q.Set("slug", platformID)
	q.Set("locale", strings.ToLower(string(lang)))
	u.RawQuery = q.Encode()

	if _, err := doJSON(ctx, w.client, http.MethodDelete, u.String(), map[string]string{"x-api-key": w.apiKey}, nil, nil); err != nil {
		logger.WithCtx(ctx).Warn("Webhook: ошибка удаления",
			zap.String("article_id", articleID), zap.String("platform_id", platformID), zap.Error(err))
		return false
	}
	return true
}
