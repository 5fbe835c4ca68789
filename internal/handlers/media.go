package handlers

import (
	"errors"
	"net/http"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/media"
	helpers "contentorchestrator/internal/utils/helpers"

	"go.uber.org/zap"
)

type MediaHandler struct {
	store *media.LocalStore
}

func NewMediaHandler(store *media.LocalStore) *MediaHandler {
	return &MediaHandler{store: store}
}

type UploadImageResponse struct {
	URL string `json:"url"`
}

// UploadImage godoc
// @Summary      Загрузить картинку для статьи
// @Description  Сохраняет картинку локально; при публикации она переносится в CMS
// @Tags         content
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Картинка до 5MB"
// @Success      201    {object}  helpers.Response{data=handlers.UploadImageResponse}
// @Failure      400    {object}  helpers.Response
// @Failure      500    {object}  helpers.Response
// @Router       /api/content/upload-image [post]
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	// запас на служебные поля multipart
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		log.Warn("Ошибка разбора формы при загрузке картинки", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		log.Warn("Картинка не найдена в форме", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "field image is required")
		return
	}
	defer file.Close()

	link, err := h.store.Save(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, media.ErrNotImage) || errors.Is(err, media.ErrTooLarge) {
			helpers.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("Ошибка при сохранении картинки", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Info("Картинка загружена", zap.String("url", link))
	helpers.JSON(w, http.StatusCreated, UploadImageResponse{URL: link})
}

// Files отдаёт загруженные картинки по /uploads/.
func (h *MediaHandler) Files() http.Handler {
	return http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.store.Dir())))
}
