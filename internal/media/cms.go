package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"contentorchestrator/internal/logger"

	"go.uber.org/zap"
)

var ErrCMSDisabled = errors.New("CMS для картинок не настроена")

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// CMSClient переносит локальные картинки в файловое хранилище CMS
// (POST multipart, ответ {"data":{"id":...}}, файл отдаётся по /assets/<id>/<имя>).
type CMSClient struct {
	endpoint string
	token    string
	store    *LocalStore
	client   *http.Client
}

func NewCMSClient(endpoint, token string, store *LocalStore, timeout time.Duration) *CMSClient {
	return &CMSClient{
		endpoint: endpoint,
		token:    token,
		store:    store,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *CMSClient) Enabled() bool {
	return c.endpoint != "" && c.token != ""
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// SEOName строит имя файла из alt-текста, а если он пустой или «image», из заголовка статьи.
func SEOName(altText, articleTitle string) string {
	base := articleTitle
	if len(altText) > 2 && strings.ToLower(altText) != "image" {
		base = altText
	}
	s := strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss").Replace(strings.ToLower(base))
	return strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-")
}

// Rehost загружает локальную картинку в CMS и возвращает новый адрес.
// После успешной загрузки локальный файл удаляется.
func (c *CMSClient) Rehost(ctx context.Context, link, altText, articleTitle string) (string, error) {
	if !c.Enabled() {
		return "", ErrCMSDisabled
	}
	path, ok := c.store.Path(link)
	if !ok {
		return "", fmt.Errorf("не локальная ссылка: %s", link)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("локальный файл: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	fileName := SEOName(altText, articleTitle) + ext
	mimeType, ok := mimeTypes[ext]
	if !ok {
		mimeType = "application/octet-stream"
	}
	title := altText
	if title == "" {
		title = articleTitle
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", title)
	_ = mw.WriteField("filename_download", fileName)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	h.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("CMS ответила %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ответ CMS: %w", err)
	}
	if out.Data.ID == "" {
		return "", errors.New("ответ CMS без id файла")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}
	newURL := u.Scheme + "://" + u.Host + "/assets/" + out.Data.ID + "/" + fileName

	if err := os.Remove(path); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось удалить локальную картинку", zap.String("file", path), zap.Error(err))
	}
	return newURL, nil
}
