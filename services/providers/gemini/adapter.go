package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/promptmux/relay/services/providers"
)

const (
	providerName   = "gemini"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash"

	// Generation parameters are fixed; callers only supply the prompt.
	maxOutputTokens = 1024
	temperature     = 0.7
)

// GeminiAdapter implements the Provider interface for Google Gemini via the
// generativelanguage REST API.
type GeminiAdapter struct {
	config     providers.ProviderConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(config providers.ProviderConfig, logger *zap.Logger) *GeminiAdapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &GeminiAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Name returns the provider name
func (a *GeminiAdapter) Name() string {
	return providerName
}

// Complete performs a single generateContent request. There is exactly one
// attempt per call; failover between vendors happens a layer above.
func (a *GeminiAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	geminiReq := &GeminiRequest{
		Contents: []GeminiContent{
			{Parts: []GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: &GeminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	}

	reqBody, err := json.Marshal(geminiReq)
	if err != nil {
		return "", a.fail(startTime, providers.NewProviderError(providerName, "failed to marshal request", 0, err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", a.config.BaseURL, a.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return "", a.fail(startTime, providers.NewProviderError(providerName, "failed to create request", 0, err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", a.config.APIKey)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", a.fail(startTime, providers.NewProviderError(providerName, "HTTP request failed", 0, err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", a.fail(startTime, providers.NewProviderError(providerName, "failed to read response", httpResp.StatusCode, err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", a.fail(startTime, a.handleErrorResponse(httpResp.StatusCode, respBody))
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", a.fail(startTime, providers.NewProviderError(providerName, "failed to unmarshal response", httpResp.StatusCode, err))
	}

	text := extractText(&geminiResp)
	if text == "" {
		return "", a.fail(startTime, providers.NewProviderError(providerName, "empty completion response", httpResp.StatusCode, nil))
	}

	a.logger.Debug("gemini completion succeeded",
		zap.String("model", a.config.Model),
		zap.Int("response_chars", len(text)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return text, nil
}

// fail logs the failure line and passes the error through
func (a *GeminiAdapter) fail(startTime time.Time, provErr *providers.ProviderError) error {
	a.logger.Warn("gemini completion failed",
		zap.String("model", a.config.Model),
		zap.Int("status_code", provErr.StatusCode),
		zap.Duration("duration", time.Since(startTime)),
		zap.Error(provErr),
	)
	return provErr
}

// handleErrorResponse handles Gemini error responses
func (a *GeminiAdapter) handleErrorResponse(statusCode int, body []byte) *providers.ProviderError {
	var errResp GeminiErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return providers.NewProviderError(providerName, string(body), statusCode, err)
	}

	return providers.NewProviderError(providerName, errResp.Error.Message, statusCode, errors.New(errResp.Error.Status))
}

// extractText joins the text parts of the first candidate
func extractText(resp *GeminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return sb.String()
}

// Gemini-specific request/response types

type GeminiRequest struct {
	Contents         []GeminiContent         `json:"contents"`
	GenerationConfig *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type GeminiErrorResponse struct {
	Error GeminiError `json:"error"`
}

type GeminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
