package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/infrastructure/htmlbody"
	"ArticlePublisher/internal/ports"
)

const systemPrompt = `Ты - эксперт по рекламе в Telegram. Пиши на русском.
ВАЖНО: Ответ ТОЛЬКО валидный JSON!
{"title": "Заголовок", "excerpt": "Описание 150-200 символов", "readTime": "X мин", "content": "<h2>...</h2><p>...</p>"}`

const userPromptTemplate = `Напиши SEO-статью: "%s"
Категория: %s. Объём: 800-1200 слов.
Структура: введение, 3-4 раздела с h2, советы, заключение.
ТОЛЬКО JSON без markdown!`

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("content provider is not configured")

// Client implements ports.ContentProvider backed by OpenAI-compatible APIs (xAI Grok by default).
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

var _ ports.ContentProvider = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.ProviderConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
	}, nil
}

// Draft asks the model for a complete article about topic.
func (c *Client) Draft(ctx context.Context, topic, category string) (domain.ArticleDraft, error) {
	if c == nil || c.api == nil {
		return domain.ArticleDraft{}, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPromptTemplate, topic, category)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return domain.ArticleDraft{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.ArticleDraft{}, fmt.Errorf("chat completion returned no choices")
	}

	return ParseDraft(resp.Choices[0].Message.Content)
}

type draftPayload struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	ReadTime string `json:"readTime"`
	Content  string `json:"content"`
}

// ParseDraft decodes the model's JSON answer, optionally wrapped in a fenced
// code block. The body is sanitised; a missing excerpt or read time is
// derived from the body.
func ParseDraft(message string) (domain.ArticleDraft, error) {
	var payload draftPayload
	if err := json.Unmarshal([]byte(stripFence(message)), &payload); err != nil {
		return domain.ArticleDraft{}, fmt.Errorf("decode article json: %w", err)
	}
	if strings.TrimSpace(payload.Content) == "" {
		return domain.ArticleDraft{}, fmt.Errorf("article json has empty content")
	}

	frag, err := htmlbody.Parse(payload.Content)
	if err != nil {
		return domain.ArticleDraft{}, err
	}
	body, err := frag.Sanitize().HTML()
	if err != nil {
		return domain.ArticleDraft{}, err
	}

	draft := domain.ArticleDraft{
		Title:    strings.TrimSpace(payload.Title),
		Excerpt:  strings.TrimSpace(payload.Excerpt),
		ReadTime: strings.TrimSpace(payload.ReadTime),
		Body:     body,
	}
	if draft.Excerpt == "" {
		draft.Excerpt = frag.Excerpt()
	}
	if draft.ReadTime == "" {
		draft.ReadTime = frag.ReadTime()
	}
	return draft, nil
}

// stripFence removes a leading ``` or ```json fence and anything after the closing one.
func stripFence(message string) string {
	content := strings.TrimSpace(message)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if end := strings.Index(content, "```"); end >= 0 {
		content = content[:end]
	}
	content = strings.TrimPrefix(content, "json")
	return strings.TrimSpace(content)
}
