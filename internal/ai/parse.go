package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField   = errors.New("в ответе модели нет обязательного поля")
	ErrMalformedField = errors.New("поле ответа модели не строка")
)

var generatedFields = []string{
	"markdownContent", "linkedinTeaser", "xingSummary", "seoTitle",
	"seoDescription", "slug", "category", "rawTranscript",
}

var translationFields = []string{
	"title", "markdownContent", "linkedinTeaser", "xingSummary", "seoTitle", "seoDescription",
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// иногда модель добавляет текст вокруг JSON
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// decodeStrict требует, чтобы каждое поле из required было строкой, и только
// потом разбирает объект в out. Частичный результат не возвращается.
func decodeStrict(content string, required []string, out any) error {
	content = cleanJSONResponse(content)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return fmt.Errorf("ответ модели не JSON-объект: %w", err)
	}

	for _, f := range required {
		v, ok := raw[f]
		if !ok || string(v) == "null" {
			return fmt.Errorf("%w: %s", ErrMissingField, f)
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedField, f)
		}
	}

	return json.Unmarshal([]byte(content), out)
}
