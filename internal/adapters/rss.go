package adapters

import (
	"context"
	"strconv"
	"time"

	"contentorchestrator/internal/models"
)

// RSS ничего не отправляет: лента строится из журнала публикаций
// (статьи с PUBLISHED). Поэтому и снятие сводится к сбросу строки журнала.
type RSS struct {
	now func() time.Time
}

var _ Adapter = (*RSS)(nil)

func NewRSS() *RSS { return &RSS{now: time.Now} }

func (r *RSS) Descriptor() models.PlatformDescriptor {
	return models.PlatformDescriptor{Platform: models.PlatformRSS, Name: "RSS Feed", CouldAutoPublish: true}
}

func (r *RSS) Publish(_ context.Context, view models.ContentView, _ string) models.PublishResult {
	if view.Slug != "" {
		return published("rss_" + view.Slug)
	}
	return published("rss_" + strconv.FormatInt(r.now().UnixMilli(), 10))
}

func (r *RSS) Unpublish(context.Context, string, string, string, models.Language) bool {
	return true
}
