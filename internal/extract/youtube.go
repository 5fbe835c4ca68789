package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"contentorchestrator/internal/logger"

	"go.uber.org/zap"
)

// HTTPError: сервис ответил не-200.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

var videoIDRe = regexp.MustCompile(`(?:v=|/)([\w-]{11})(?:\?|&|/|$)`)

// VideoID вытаскивает 11-символьный id из ссылок вида watch?v=, youtu.be/, embed/, shorts/.
func VideoID(videoURL string) (string, error) {
	m := videoIDRe.FindStringSubmatch(videoURL)
	if m == nil {
		return "", fmt.Errorf("не удалось определить id видео в %q", videoURL)
	}
	return m[1], nil
}

// TranscriptClient получает расшифровку видео через внешний сервис транскриптов.
type TranscriptClient struct {
	apiURL  string
	apiKey  string
	retries int
	client  *http.Client
	backoff time.Duration
}

func NewTranscriptClient(apiURL, apiKey string, retries int, timeout time.Duration) *TranscriptClient {
	if retries < 1 {
		retries = 1
	}
	return &TranscriptClient{
		apiURL:  apiURL,
		apiKey:  apiKey,
		retries: retries,
		client:  &http.Client{Timeout: timeout},
		backoff: time.Second,
	}
}

func (c *TranscriptClient) Extract(ctx context.Context, sourceURL string) (string, error) {
	videoID, err := VideoID(sourceURL)
	if err != nil {
		return "", err
	}
	if c.apiKey == "" {
		return "", errors.New("TRANSCRIPT_API_KEY не задан")
	}

	var lastErr error
	for i := 0; i < c.retries; i++ {
		text, err := c.fetch(ctx, videoID)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !retryable(err) {
			return "", err
		}
		logger.WithCtx(ctx).Warn("Сервис транскриптов временно недоступен, повтор",
			zap.String("video_id", videoID), zap.Int("attempt", i+1), zap.Error(err))

		select {
		case <-time.After(c.backoff * time.Duration(i+1)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("превышено число попыток: %w", lastErr)
}

// retryable: 429 и 5xx повторяем, остальные ответы окончательные.
func retryable(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
}

func (c *TranscriptClient) fetch(ctx context.Context, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return "", err
	}

	q := req.URL.Query()
	q.Add("url", "https://www.youtube.com/watch?v="+videoID)
	q.Add("text", "true")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("сервис транскриптов: статус %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", errors.New("пустая расшифровка")
	}
	return text, nil
}
