package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// ArticleScraper скачивает статью (через зеркало, если задано), вырезает
// служебные блоки и отдаёт текст тела в markdown.
type ArticleScraper struct {
	mirrorPrefix string
	client       *http.Client
	converter    *md.Converter
}

func NewArticleScraper(mirrorPrefix string, timeout time.Duration) *ArticleScraper {
	return &ArticleScraper{
		mirrorPrefix: mirrorPrefix,
		client:       &http.Client{Timeout: timeout},
		converter:    md.NewConverter("", true, nil),
	}
}

func (s *ArticleScraper) Extract(ctx context.Context, sourceURL string) (string, error) {
	target := sourceURL
	if s.mirrorPrefix != "" {
		target = s.mirrorPrefix + sourceURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ContentOrchestrator/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("статья недоступна: статус %d", resp.StatusCode)}
	}

	return s.textFromHTML(io.LimitReader(resp.Body, 10<<20))
}

func (s *ArticleScraper) textFromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("разбор HTML: %w", err)
	}

	doc.Find("script, style, nav, header, footer, noscript, iframe").Remove()

	body := doc.Find("article").First()
	if body.Length() == 0 {
		body = doc.Find("body")
	}

	text := ""
	if html, err := body.Html(); err == nil {
		if conv, err := s.converter.ConvertString(html); err == nil {
			text = strings.TrimSpace(conv)
		}
	}
	if text == "" {
		text = strings.Join(strings.Fields(body.Text()), " ")
	}
	if text == "" {
		return "", errors.New("в статье не найден текст")
	}
	return text, nil
}
