package routes

import (
	"net/http"

	"contentorchestrator/internal/handlers"
	"contentorchestrator/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	contentH *handlers.ContentHandler,
	activityH *handlers.ActivityHandler,
	feedH *handlers.FeedHandler,
	mediaH *handlers.MediaHandler,
	limiter *middleware.RateLimiter,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	if mediaH != nil {
		router.PathPrefix("/uploads/").Handler(mediaH.Files()).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()
	if limiter != nil {
		api.Use(limiter.Middleware)
	}

	api.HandleFunc("/platforms", contentH.Platforms).Methods(http.MethodGet)
	api.HandleFunc("/rss", feedH.RSS).Methods(http.MethodGet)

	content := api.PathPrefix("/content").Subrouter()
	content.HandleFunc("", contentH.Create).Methods(http.MethodPost)
	content.HandleFunc("", contentH.List).Methods(http.MethodGet)
	if mediaH != nil {
		content.HandleFunc("/upload-image", mediaH.UploadImage).Methods(http.MethodPost)
	}
	content.HandleFunc("/{id}", contentH.Get).Methods(http.MethodGet)
	content.HandleFunc("/{id}", contentH.Update).Methods(http.MethodPut)
	content.HandleFunc("/{id}", contentH.Delete).Methods(http.MethodDelete)

	content.HandleFunc("/{id}/reprocess", contentH.Reprocess).Methods(http.MethodPost)
	content.HandleFunc("/{id}/translate", contentH.Translate).Methods(http.MethodPost)
	content.HandleFunc("/{id}/activity", activityH.Activity).Methods(http.MethodGet)
	content.HandleFunc("/{id}/share-url", contentH.ShareURL).Methods(http.MethodGet)

	// --- Публикации ---
	content.HandleFunc("/{id}/publish", contentH.Publish).Methods(http.MethodPost)
	content.HandleFunc("/{id}/publish-all", contentH.PublishAll).Methods(http.MethodPost)
	content.HandleFunc("/{id}/unpublish", contentH.Unpublish).Methods(http.MethodPost)
	content.HandleFunc("/{id}/unpublish-all", contentH.UnpublishAll).Methods(http.MethodPost)
}
