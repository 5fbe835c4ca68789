package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"
	"contentorchestrator/internal/services"
	helpers "contentorchestrator/internal/utils/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var validate = validator.New()

type ContentHandler struct {
	content   services.ContentService
	publisher services.PublishingService
}

func NewContentHandler(content services.ContentService, publisher services.PublishingService) *ContentHandler {
	return &ContentHandler{content: content, publisher: publisher}
}

// writeServiceError: ошибки валидации → 400, не найдено → 404, остальное → 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrArticleNotFound):
		helpers.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnknownPlatform),
		errors.Is(err, services.ErrUnsupportedLanguage),
		errors.Is(err, services.ErrInvalidInput):
		helpers.Error(w, http.StatusBadRequest, err.Error())
	default:
		helpers.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithCtx(r.Context()).Warn("Неверный JSON", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// Create
// @Summary      Создать статью
// @Description  Создаёт статью из видео или статьи Medium и ставит задачу генерации
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateArticleRequest  true  "Источник"
// @Success      201   {object}  helpers.Response{data=models.Article}
// @Failure      400   {object}  helpers.Response
// @Failure      500   {object}  helpers.Response
// @Router       /api/content [post]
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateArticleRequest
	if !decode(w, r, &req) {
		return
	}

	a, err := h.content.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, a)
}

// List
// @Summary      Список статей
// @Tags         content
// @Produce      json
// @Param        limit   query     int  false  "Лимит (по умолч. 20, макс. 100)"
// @Param        offset  query     int  false  "Смещение"
// @Success      200     {object}  helpers.Response{data=[]models.Article}
// @Router       /api/content [get]
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := clampAtoi(r.URL.Query().Get("limit"), 20, 1, 100)
	offset := clampAtoi(r.URL.Query().Get("offset"), 0, 0, 1_000_000)

	list, err := h.content.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if list == nil {
		list = []*models.Article{}
	}
	helpers.JSON(w, http.StatusOK, list)
}

// Get
// @Summary      Статья с публикациями
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "ID статьи"
// @Success      200  {object}  helpers.Response{data=models.ArticleDetails}
// @Failure      404  {object}  helpers.Response
// @Router       /api/content/{id} [get]
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.content.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, d)
}

// ShareURL
// @Summary      Ссылки для шаринга статьи
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "ID статьи"
// @Success      200  {object}  helpers.Response{data=models.ShareLinks}
// @Failure      400  {object}  helpers.Response
// @Failure      404  {object}  helpers.Response
// @Router       /api/content/{id}/share-url [get]
func (h *ContentHandler) ShareURL(w http.ResponseWriter, r *http.Request) {
	links, err := h.content.ShareLinks(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, links)
}

// Update
// @Summary      Изменить статью
// @Description  Частичное обновление полей и расписания (status=SCHEDULED|DRAFT|PUBLISHED, scheduledAt в RFC3339)
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID статьи"
// @Param        body  body      models.UpdateArticleRequest  true  "Изменения"
// @Success      200   {object}  helpers.Response{data=models.Article}
// @Failure      400   {object}  helpers.Response
// @Failure      404   {object}  helpers.Response
// @Router       /api/content/{id} [put]
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateArticleRequest
	if !decode(w, r, &req) {
		return
	}

	a, err := h.content.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, a)
}

// Delete
// @Summary      Удалить статью
// @Description  Снимает все публикации и удаляет статью
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "ID статьи"
// @Success      200  {object}  helpers.Response
// @Failure      404  {object}  helpers.Response
// @Router       /api/content/{id} [delete]
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Reprocess
// @Summary      Повторная генерация
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "ID статьи"
// @Success      202  {object}  helpers.Response{data=models.Article}
// @Failure      404  {object}  helpers.Response
// @Router       /api/content/{id}/reprocess [post]
func (h *ContentHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	a, err := h.content.Reprocess(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusAccepted, a)
}

// Translate
// @Summary      Перевести статью на английский
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "ID статьи"
// @Success      200  {object}  helpers.Response{data=models.Article}
// @Failure      400  {object}  helpers.Response
// @Failure      404  {object}  helpers.Response
// @Router       /api/content/{id}/translate [post]
func (h *ContentHandler) Translate(w http.ResponseWriter, r *http.Request) {
	a, err := h.content.Translate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, a)
}

// Publish
// @Summary      Опубликовать на площадке
// @Description  Ошибка площадки не является ошибкой запроса: результат приходит в data, строка журнала получает статус ERROR
// @Tags         publishing
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID статьи"
// @Param        body  body      models.PublishRequest  true  "Цель"
// @Success      200   {object}  helpers.Response{data=models.PublishResult}
// @Failure      400   {object}  helpers.Response
// @Failure      404   {object}  helpers.Response
// @Router       /api/content/{id}/publish [post]
func (h *ContentHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req models.PublishRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.publisher.PublishToPlatform(r.Context(), mux.Vars(r)["id"], req.Platform, req.AccessToken, models.Language(req.Language))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}

// PublishAll
// @Summary      Опубликовать на всех автоматических площадках
// @Description  Площадки с ручной публикацией пропускаются (skipped=true)
// @Tags         publishing
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID статьи"
// @Param        body  body      models.PublishAllRequest  true  "Цели"
// @Success      200   {object}  helpers.Response{data=[]models.PublishOutcome}
// @Failure      400   {object}  helpers.Response
// @Failure      404   {object}  helpers.Response
// @Router       /api/content/{id}/publish-all [post]
func (h *ContentHandler) PublishAll(w http.ResponseWriter, r *http.Request) {
	var req models.PublishAllRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.publisher.PublishAll(r.Context(), mux.Vars(r)["id"], req.Targets)
	if out == nil {
		writeServiceError(w, err)
		return
	}
	if err != nil {
		// часть целей не записана в журнал; результаты по остальным всё равно отдаём
		logger.WithCtx(r.Context()).Error("Массовая публикация с ошибками", zap.Int("errors", len(multierr.Errors(err))), zap.Error(err))
	}
	helpers.JSON(w, http.StatusOK, out)
}

// Unpublish
// @Summary      Снять публикацию
// @Tags         publishing
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID статьи"
// @Param        body  body      models.PublishRequest  true  "Цель"
// @Success      200   {object}  helpers.Response
// @Failure      400   {object}  helpers.Response
// @Router       /api/content/{id}/unpublish [post]
func (h *ContentHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	var req models.PublishRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.publisher.UnpublishFromPlatform(r.Context(), mux.Vars(r)["id"], req.Platform, req.AccessToken, models.Language(req.Language)); err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]bool{"unpublished": true})
}

// UnpublishAll
// @Summary      Снять все публикации статьи
// @Tags         publishing
// @Produce      json
// @Param        id   path      string  true  "ID статьи"
// @Success      200  {object}  helpers.Response
// @Failure      500  {object}  helpers.Response
// @Router       /api/content/{id}/unpublish-all [post]
func (h *ContentHandler) UnpublishAll(w http.ResponseWriter, r *http.Request) {
	if err := h.publisher.UnpublishAll(r.Context(), mux.Vars(r)["id"]); err != nil {
		errs := multierr.Errors(err)
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(helpers.Response{
			Data:  map[string][]string{"errors": msgs},
			Error: strconv.Itoa(len(msgs)) + " publication(s) could not be removed",
		})
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]bool{"unpublished": true})
}

// Platforms
// @Summary      Доступные площадки
// @Tags         publishing
// @Produce      json
// @Success      200  {object}  helpers.Response{data=[]models.PlatformDescriptor}
// @Router       /api/platforms [get]
func (h *ContentHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, h.publisher.Platforms())
}
