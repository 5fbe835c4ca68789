package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contentorchestrator/internal/config"
	"contentorchestrator/internal/models"
)

// Generator: внешний сервис генерации текста.
type Generator interface {
	Generate(ctx context.Context, rawText string) (*models.GeneratedContent, error)
	Translate(ctx context.Context, src models.Translation) (*models.Translation, error)
}

// completer: один вызов модели: системный промпт + пользовательский текст.
type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Model() string
}

type Client struct {
	llm     completer
	prompts Prompts
}

var _ Generator = (*Client)(nil)

func newClient(llm completer, prompts Prompts) *Client {
	return &Client{llm: llm, prompts: prompts}
}

// New собирает генератор по AI_PROVIDER.
func New(cfg *config.Config, prompts Prompts) (*Client, error) {
	switch cfg.AIProvider {
	case "openai":
		return newClient(NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel), prompts), nil
	case "anthropic":
		return newClient(NewAnthropic(cfg.AnthropicKey, cfg.AnthropicModel), prompts), nil
	default:
		return nil, fmt.Errorf("неизвестный AI_PROVIDER %q", cfg.AIProvider)
	}
}

func (c *Client) Generate(ctx context.Context, rawText string) (*models.GeneratedContent, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("пустой исходный текст")
	}

	content, err := c.llm.Complete(ctx, c.prompts.Generation, rawText)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.llm.Model(), err)
	}

	var out models.GeneratedContent
	if err := decodeStrict(content, generatedFields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Translate(ctx context.Context, src models.Translation) (*models.Translation, error) {
	payload, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}

	content, err := c.llm.Complete(ctx, c.prompts.Translation, string(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.llm.Model(), err)
	}

	var out models.Translation
	if err := decodeStrict(content, translationFields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
