package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contentorchestrator/internal/models"
	"contentorchestrator/internal/services"
	helpers "contentorchestrator/internal/utils/helpers"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fakeContent struct {
	created models.CreateArticleRequest
	updated models.UpdateArticleRequest
	err     error
}

func (f *fakeContent) Create(_ context.Context, req models.CreateArticleRequest) (*models.Article, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Article{ID: "a1", SourceURL: req.URL, SourceType: req.Type, ProcessingStatus: models.ProcessingPending}, nil
}

func (f *fakeContent) Get(_ context.Context, id string) (*models.ArticleDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ArticleDetails{Article: &models.Article{ID: id}}, nil
}

func (f *fakeContent) List(context.Context, int, int) ([]*models.Article, error) {
	return nil, f.err
}

func (f *fakeContent) Update(_ context.Context, id string, req models.UpdateArticleRequest) (*models.Article, error) {
	f.updated = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Article{ID: id}, nil
}

func (f *fakeContent) Delete(context.Context, string) error { return f.err }

func (f *fakeContent) Reprocess(_ context.Context, id string) (*models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Article{ID: id, ProcessingStatus: models.ProcessingPending}, nil
}

func (f *fakeContent) Translate(_ context.Context, id string) (*models.Article, error) {
	return &models.Article{ID: id}, f.err
}

func (f *fakeContent) ShareLinks(_ context.Context, id string) (*models.ShareLinks, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ShareLinks{URL: "https://example.com/articles/" + id}, nil
}

type fakePublisher struct {
	result       models.PublishResult
	err          error
	unpublishErr error
	lang         models.Language
}

func (f *fakePublisher) Platforms() []models.PlatformDescriptor {
	return []models.PlatformDescriptor{{Platform: models.PlatformLinkedIn, Name: "LinkedIn", CouldAutoPublish: true}}
}

func (f *fakePublisher) PublishToPlatform(_ context.Context, _ string, _ models.Platform, _ string, lang models.Language) (models.PublishResult, error) {
	f.lang = lang
	return f.result, f.err
}

func (f *fakePublisher) UnpublishFromPlatform(context.Context, string, models.Platform, string, models.Language) error {
	return f.err
}

func (f *fakePublisher) UnpublishAll(context.Context, string) error { return f.unpublishErr }

func (f *fakePublisher) PublishAll(_ context.Context, _ string, targets []models.PublishTarget) ([]models.PublishOutcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.PublishOutcome, 0, len(targets))
	for _, t := range targets {
		out = append(out, models.PublishOutcome{Platform: t.Platform, Result: f.result})
	}
	return out, nil
}

func newRouter(c *fakeContent, p *fakePublisher) *mux.Router {
	h := NewContentHandler(c, p)
	r := mux.NewRouter()
	r.HandleFunc("/api/content", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/content", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/content/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/content/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/content/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/content/{id}/reprocess", h.Reprocess).Methods(http.MethodPost)
	r.HandleFunc("/api/content/{id}/share-url", h.ShareURL).Methods(http.MethodGet)
	r.HandleFunc("/api/content/{id}/publish", h.Publish).Methods(http.MethodPost)
	r.HandleFunc("/api/content/{id}/publish-all", h.PublishAll).Methods(http.MethodPost)
	r.HandleFunc("/api/content/{id}/unpublish-all", h.UnpublishAll).Methods(http.MethodPost)
	r.HandleFunc("/api/platforms", h.Platforms).Methods(http.MethodGet)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, helpers.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp helpers.Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func TestCreateHandler(t *testing.T) {
	c := &fakeContent{}
	r := newRouter(c, &fakePublisher{})

	rec, resp := do(t, r, http.MethodPost, "/api/content", `{"url":"https://youtu.be/dQw4w9WgXcQ","type":"YOUTUBE","title":"Go"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", c.created.URL)
	assert.Equal(t, models.SourceYouTube, c.created.Type)
}

func TestCreateHandler_Validation(t *testing.T) {
	r := newRouter(&fakeContent{}, &fakePublisher{})

	for name, body := range map[string]string{
		"bad json":     `{"url":`,
		"missing url":  `{"type":"YOUTUBE"}`,
		"unknown type": `{"url":"https://example.com","type":"PODCAST"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, resp := do(t, r, http.MethodPost, "/api/content", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{services.ErrArticleNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: x", services.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: x", services.ErrUnknownPlatform), http.StatusBadRequest},
		{services.ErrUnsupportedLanguage, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := newRouter(&fakeContent{err: tt.err}, &fakePublisher{})
			rec, _ := do(t, r, http.MethodGet, "/api/content/a1", "")
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestUpdateHandler_StatusValidation(t *testing.T) {
	c := &fakeContent{}
	r := newRouter(c, &fakePublisher{})

	rec, _ := do(t, r, http.MethodPut, "/api/content/a1", `{"status":"SCHEDULED","scheduledAt":"2026-01-02T09:00:00Z"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.updated.ScheduledAt)

	rec, _ = do(t, r, http.MethodPut, "/api/content/a1", `{"status":"ARCHIVED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishHandler_AdapterFailureIs200(t *testing.T) {
	p := &fakePublisher{result: models.PublishResult{Success: false, Error: "token expired"}}
	r := newRouter(&fakeContent{}, p)

	rec, resp := do(t, r, http.MethodPost, "/api/content/a1/publish", `{"platform":"LINKEDIN","accessToken":"tok","language":"EN"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Error)
	assert.Equal(t, models.LanguageEN, p.lang)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, data["success"])
	assert.Equal(t, "token expired", data["error"])
}

func TestPublishHandler_MissingPlatform(t *testing.T) {
	r := newRouter(&fakeContent{}, &fakePublisher{})
	rec, _ := do(t, r, http.MethodPost, "/api/content/a1/publish", `{"accessToken":"tok"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishAllHandler(t *testing.T) {
	r := newRouter(&fakeContent{}, &fakePublisher{result: models.PublishResult{Success: true, PlatformID: "x"}})

	rec, resp := do(t, r, http.MethodPost, "/api/content/a1/publish-all", `{"targets":[{"platform":"LINKEDIN"},{"platform":"RSS"}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	list, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)

	rec, _ = do(t, r, http.MethodPost, "/api/content/a1/publish-all", `{"targets":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnpublishAllHandler_ReportsErrors(t *testing.T) {
	p := &fakePublisher{unpublishErr: multierr.Combine(errors.New("LINKEDIN/DE: 500"), errors.New("MEDIUM/DE: 500"))}
	r := newRouter(&fakeContent{}, p)

	rec, resp := do(t, r, http.MethodPost, "/api/content/a1/unpublish-all", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, resp.Error, "2")
}

func TestPlatformsHandler(t *testing.T) {
	r := newRouter(&fakeContent{}, &fakePublisher{})
	rec, resp := do(t, r, http.MethodGet, "/api/platforms", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	list, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "LINKEDIN", list[0].(map[string]any)["platform"])
}

func TestListHandler_EmptyIsArray(t *testing.T) {
	r := newRouter(&fakeContent{}, &fakePublisher{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content?limit=500", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestActivityHandler(t *testing.T) {
	dir := t.TempDir()
	lines := strings.Join([]string{
		`{"level":"INFO","msg":"Генерация начата","article_id":"a1"}`,
		`{"level":"INFO","msg":"Генерация начата","article_id":"a2"}`,
		`not json "article_id":"a1"`,
		`{"level":"WARN","msg":"Публикация не удалась","article_id":"a1","platform":"LINKEDIN"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte(lines), 0o644))

	h := NewActivityHandler(dir)
	r := mux.NewRouter()
	r.HandleFunc("/api/content/{id}/activity", h.Activity)

	rec, resp := do(t, r, http.MethodGet, "/api/content/a1/activity", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	assert.Len(t, data["items"], 2)

	rec, resp = do(t, r, http.MethodGet, "/api/content/a1/activity?level=warn", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.(map[string]any)["items"], 1)
}

func TestActivityHandler_NoLogDir(t *testing.T) {
	h := NewActivityHandler(filepath.Join(t.TempDir(), "missing"))
	r := mux.NewRouter()
	r.HandleFunc("/api/content/{id}/activity", h.Activity)

	rec, resp := do(t, r, http.MethodGet, "/api/content/a1/activity", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Data.(map[string]any)["items"])
}

func TestShareURLHandler(t *testing.T) {
	r := newRouter(&fakeContent{}, &fakePublisher{})
	rec, resp := do(t, r, http.MethodGet, "/api/content/go-im-backend/share-url", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com/articles/go-im-backend", resp.Data.(map[string]any)["url"])

	r = newRouter(&fakeContent{err: services.ErrArticleNotFound}, &fakePublisher{})
	rec, _ = do(t, r, http.MethodGet, "/api/content/missing/share-url", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActivityHandler_ReturnsNewestEntries(t *testing.T) {
	dir := t.TempDir()
	line := func(n int) string {
		return fmt.Sprintf(`{"level":"INFO","msg":"step %d","article_id":"a1"}`, n)
	}
	rotated := strings.Join([]string{line(1), line(2), line(3)}, "\n")
	current := strings.Join([]string{line(4), `{"level":"INFO","msg":"other","article_id":"a2"}`, line(5)}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app-2026-01-01T00-00-00.000.log"), []byte(rotated), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte(current), 0o644))

	h := NewActivityHandler(dir)
	r := mux.NewRouter()
	r.HandleFunc("/api/content/{id}/activity", h.Activity)

	rec, resp := do(t, r, http.MethodGet, "/api/content/a1/activity?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := resp.Data.(map[string]any)["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "step 4", items[0].(map[string]any)["msg"])
	assert.Equal(t, "step 5", items[1].(map[string]any)["msg"])

	rec, resp = do(t, r, http.MethodGet, "/api/content/a1/activity?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items = resp.Data.(map[string]any)["items"].([]any)
	require.Len(t, items, 3)
	assert.Equal(t, "step 3", items[0].(map[string]any)["msg"])
}
