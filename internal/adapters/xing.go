package adapters

import (
	"context"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"

	"go.uber.org/zap"
)

// Xing делится ссылкой на источник с комментарием. Только ручной запуск.
// Удалить ссылку через API нельзя, поэтому Unpublish лишь подтверждает
// локальный сброс и возвращает true.
type Xing struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

var _ Adapter = (*Xing)(nil)

func NewXing(baseURL string, timeout time.Duration) *Xing {
	return &Xing{baseURL: strings.TrimRight(baseURL, "/"), client: newHTTPClient(timeout), now: time.Now}
}

func (x *Xing) Descriptor() models.PlatformDescriptor {
	return models.PlatformDescriptor{Platform: models.PlatformXing, Name: "XING", CouldAutoPublish: false}
}

func (x *Xing) Publish(ctx context.Context, view models.ContentView, credential string) models.PublishResult {
	if credential == "" {
		return failed("для XING нужен access token")
	}
	if strings.TrimSpace(view.XingSummary) == "" {
		return failed("у статьи нет текста для XING (xingSummary)")
	}
	if view.SourceURL == "" {
		return failed("у статьи нет ссылки на источник")
	}

	body := map[string]string{"uri": view.SourceURL, "comment": view.XingSummary}
	h, err := doJSON(ctx, x.client, http.MethodPost, x.baseURL+"/v1/users/me/share/link", bearer(credential), body, nil)
	if err != nil {
		logger.WithCtx(ctx).Warn("XING: ошибка публикации",
			zap.String("article_id", view.ArticleID), zap.Error(err))
		return failed("XING: %v", err)
	}

	if loc := h.Get("Location"); loc != "" {
		return published(path.Base(loc))
	}
	return published("xing_" + strconv.FormatInt(x.now().UnixMilli(), 10))
}

func (x *Xing) Unpublish(ctx context.Context, articleID, platformID, _ string, _ models.Language) bool {
	logger.WithCtx(ctx).Info("XING: удаление не поддерживается API, сбрасываем только локальный статус",
		zap.String("article_id", articleID), zap.String("platform_id", platformID))
	return true
}
