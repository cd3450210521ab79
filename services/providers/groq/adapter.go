package groq

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/promptmux/relay/services/providers"
)

const (
	providerName   = "groq"
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"

	// Generation parameters are fixed; callers only supply the prompt.
	maxCompletionTokens = 1024
	temperature         = 0.7
)

// chatClient captures the subset of the go-openai client used by the adapter.
// It is satisfied by *openai.Client so tests can inject a stub.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// GroqAdapter implements the Provider interface for Groq. Groq exposes an
// OpenAI-compatible chat completions API, so the adapter reuses the go-openai
// client pointed at the Groq base URL.
type GroqAdapter struct {
	chat   chatClient
	model  string
	logger *zap.Logger
}

// NewGroqAdapter creates a new Groq adapter
func NewGroqAdapter(config providers.ProviderConfig, logger *zap.Logger) *GroqAdapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: config.Timeout,
	}

	return &GroqAdapter{
		chat:   openai.NewClientWithConfig(clientConfig),
		model:  config.Model,
		logger: logger,
	}
}

// Name returns the provider name
func (a *GroqAdapter) Name() string {
	return providerName
}

// Complete performs a single completion request. There is exactly one attempt
// per call; failover between vendors happens a layer above.
func (a *GroqAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	resp, err := a.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxCompletionTokens,
		Temperature: temperature,
	})
	if err != nil {
		provErr := a.normalizeError(err)
		a.logger.Warn("groq completion failed",
			zap.String("model", a.model),
			zap.Int("status_code", provErr.StatusCode),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err),
		)
		return "", provErr
	}

	if len(resp.Choices) == 0 {
		provErr := providers.NewProviderError(providerName, "empty completion response", 0, nil)
		a.logger.Warn("groq completion failed",
			zap.String("model", a.model),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(provErr),
		)
		return "", provErr
	}

	text := resp.Choices[0].Message.Content
	a.logger.Debug("groq completion succeeded",
		zap.String("model", a.model),
		zap.Int("response_chars", len(text)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return text, nil
}

// normalizeError maps go-openai errors to the unified provider error shape
func (a *GroqAdapter) normalizeError(err error) *providers.ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return providers.NewProviderError(providerName, apiErr.Message, apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return providers.NewProviderError(providerName, reqErr.Error(), reqErr.HTTPStatusCode, err)
	}

	return providers.NewProviderError(providerName, err.Error(), 0, err)
}
