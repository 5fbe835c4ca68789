package handlers

import (
	"net/http"

	"contentorchestrator/internal/services"
	helpers "contentorchestrator/internal/utils/helpers"
)

type FeedHandler struct {
	svc services.FeedService
}

func NewFeedHandler(svc services.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// RSS
// @Summary      RSS-лента
// @Description  RSS 2.0: статьи, у которых есть хотя бы одна публикация, новые сверху, не более 50
// @Tags         feed
// @Produce      application/rss+xml
// @Success      200  {string}  string  "RSS 2.0"
// @Failure      500  {object}  helpers.Response
// @Router       /api/rss [get]
func (h *FeedHandler) RSS(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.RSS(r.Context())
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, "feed unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write([]byte(out))
}
