package anthropic

import (
	"context"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/promptmux/relay/services/providers"
)

const (
	providerName = "anthropic"
	defaultModel = "claude-3-5-haiku-latest"

	// Generation parameters are fixed; callers only supply the prompt.
	maxCompletionTokens = 1024
	temperature         = 0.7
)

// messagesClient captures the subset of the Anthropic SDK client used by the
// adapter. It is satisfied by *sdk.MessageService so tests can inject a stub.
type messagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// AnthropicAdapter implements the Provider interface for Anthropic via the
// Claude Messages API.
type AnthropicAdapter struct {
	messages messagesClient
	model    string
	logger   *zap.Logger
}

// NewAnthropicAdapter creates a new Anthropic adapter
func NewAnthropicAdapter(config providers.ProviderConfig, logger *zap.Logger) *AnthropicAdapter {
	if config.Model == "" {
		config.Model = defaultModel
	}

	client := sdk.NewClient(option.WithAPIKey(config.APIKey))

	return &AnthropicAdapter{
		messages: &client.Messages,
		model:    config.Model,
		logger:   logger,
	}
}

// Name returns the provider name
func (a *AnthropicAdapter) Name() string {
	return providerName
}

// Complete performs a single Messages API request. There is exactly one
// attempt per call; failover between vendors happens a layer above.
func (a *AnthropicAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	msg, err := a.messages.New(ctx, sdk.MessageNewParams{
		MaxTokens: maxCompletionTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
		Model:       sdk.Model(a.model),
		Temperature: sdk.Float(temperature),
	})
	if err != nil {
		provErr := providers.NewProviderError(providerName, err.Error(), 0, err)
		a.logger.Warn("anthropic completion failed",
			zap.String("model", a.model),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err),
		)
		return "", provErr
	}

	text := extractText(msg)
	if text == "" {
		provErr := providers.NewProviderError(providerName, "empty completion response", 0, nil)
		a.logger.Warn("anthropic completion failed",
			zap.String("model", a.model),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(provErr),
		)
		return "", provErr
	}

	a.logger.Debug("anthropic completion succeeded",
		zap.String("model", a.model),
		zap.Int("response_chars", len(text)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return text, nil
}

// extractText joins the text content blocks of the response
func extractText(msg *sdk.Message) string {
	if msg == nil {
		return ""
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return sb.String()
}
