// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Адаптер принимает собранный промпт целиком и возвращает сырой текст
// ответа — разбор Thought/Action/Final Answer выполняется выше (pkg/agent).
package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ilkoid/mrkl-agent/pkg/config"
	"github.com/ilkoid/mrkl-agent/pkg/llm"
	"github.com/ilkoid/mrkl-agent/pkg/utils"
)

// Client реализует интерфейс llm.Provider для OpenAI-совместимых API.
type Client struct {
	api         *openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	limiter     *rate.Limiter
}

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Принимает ModelDef напрямую для упрощения создания клиентов через factory.
// Если в ModelDef задан rate_limit, запросы к API дросселируются
// (rate.Limiter, запросов в минуту + burst).
func NewClient(modelDef config.ModelDef) *Client {
	// Поддержка custom BaseURL для non-OpenAI провайдеров (Zai, DeepSeek и т.д.)
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	var limiter *rate.Limiter
	if modelDef.RateLimit > 0 {
		burst := modelDef.BurstLimit
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(modelDef.RateLimit)/60.0), burst)
	}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       modelDef.ModelName,
		temperature: modelDef.Temperature,
		maxTokens:   modelDef.MaxTokens,
		timeout:     modelDef.Timeout,
		limiter:     limiter,
	}
}

// Complete выполняет запрос к API и возвращает текст ответа модели.
//
// Промпт передаётся единственным user-сообщением: весь контекст
// (каталог инструментов, scratchpad) уже собран в тексте промпта.
// Если в конфигурации модели задан timeout, запрос ограничивается им.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	utils.Debug("LLM request started",
		"model", c.model,
		"prompt_length", len(prompt))

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if c.temperature > 0 {
		req.Temperature = float32(c.temperature)
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Error("LLM request failed", "model", c.model, "error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	utils.Debug("LLM request completed",
		"model", c.model,
		"duration_ms", time.Since(startTime).Milliseconds(),
		"response_length", len(resp.Choices[0].Message.Content))

	return resp.Choices[0].Message.Content, nil
}

// Ensure Client implements llm.Provider
var _ llm.Provider = (*Client)(nil)
