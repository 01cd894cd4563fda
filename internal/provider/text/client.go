package text

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"PodcastStudio/internal/routing"
)

// DefaultDisclaimer — единственная «брендовая» строка, с которой пустой ответ
// провайдера считается деградацией, а не ошибкой.
const DefaultDisclaimer = "Этот выпуск собран автоматически в PodcastStudio."

// ErrGenerationFailed — провайдер ответил неуспехом или пустым текстом.
var ErrGenerationFailed = errors.New("text: generation failed")

// OpenAI-совместимые эндпоинты провайдеров.
const (
	googleBaseURL       = "https://generativelanguage.googleapis.com/v1beta/openai/"
	pollinationsBaseURL = "https://text.pollinations.ai/openai"
)

// Client генерирует текст сценария через OpenAI-совместимый Chat Completions
// API. Базовый URL и ключ зависят от решения маршрутизатора; клиент SDK
// создаётся заново на каждый вызов.
type Client struct {
	apiKey  string
	baseURL string // переопределение эндпоинта; пусто — по решению маршрутизатора
	logger  *zap.SugaredLogger
}

func New(apiKey string, logger *zap.SugaredLogger) *Client {
	return &Client{apiKey: apiKey, logger: logger}
}

// GenerateScript запрашивает сценарий по теме. fallback — политика пустого
// ответа от вызывающего: только DefaultDisclaimer принимается как деградация,
// любой другой пустой результат — ошибка.
func (c *Client) GenerateScript(ctx context.Context, dec routing.Decision, topic, styleHints, fallback string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("%w: empty topic", ErrGenerationFailed)
	}

	base, key := "", c.apiKey
	switch dec.Provider {
	case routing.ProviderGoogle:
		base = googleBaseURL
	case routing.ProviderPollinations:
		// Бесплатный эндпоинт, ключ не обязателен
		base, key = pollinationsBaseURL, "anonymous"
	default:
		return "", fmt.Errorf("%w: unknown text provider %q", ErrGenerationFailed, dec.Provider)
	}
	if c.baseURL != "" {
		base = c.baseURL
	}

	client := openai.NewClient(option.WithBaseURL(base), option.WithAPIKey(key))

	system := "Ты сценарист подкастов. Верни готовый сценарий: каждая реплика на своей строке в виде \"Спикер: текст\"."
	if s := strings.TrimSpace(styleHints); s != "" {
		system += " Стиль: " + s
	}

	started := time.Now()
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(dec.ModelID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage("Тема выпуска: " + topic),
		},
	})
	if err != nil {
		return "", err
	}
	if c.logger != nil {
		c.logger.Infow("Script generation completed", "model", dec.ModelID, "took", time.Since(started).String())
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrGenerationFailed)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		// Пустой текст допустим только как брендовый дисклеймер от вызывающего
		if fallback == DefaultDisclaimer {
			if c.logger != nil {
				c.logger.Warnw("Провайдер вернул пустой текст, используем дисклеймер", "model", dec.ModelID)
			}
			return fallback, nil
		}
		return "", fmt.Errorf("%w: empty completion text", ErrGenerationFailed)
	}
	return out, nil
}
