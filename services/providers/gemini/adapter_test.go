package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/promptmux/relay/services/providers"
)

func newTestAdapter(serverURL string) *GeminiAdapter {
	return NewGeminiAdapter(providers.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestNewGeminiAdapter(t *testing.T) {
	adapter := NewGeminiAdapter(providers.ProviderConfig{
		APIKey: "test-key",
	}, zap.NewNop())

	if adapter == nil {
		t.Fatal("NewGeminiAdapter() returned nil")
	}

	if adapter.Name() != "gemini" {
		t.Errorf("Name() = %s, want gemini", adapter.Name())
	}

	if adapter.config.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %s, want %s", adapter.config.BaseURL, defaultBaseURL)
	}

	if adapter.config.Model != defaultModel {
		t.Errorf("Model = %s, want %s", adapter.config.Model, defaultModel)
	}
}

func TestGeminiAdapter_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}

		wantPath := "/models/" + defaultModel + ":generateContent"
		if r.URL.Path != wantPath {
			t.Errorf("Expected path %s, got %s", wantPath, r.URL.Path)
		}

		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("x-goog-api-key header missing or invalid")
		}

		var req GeminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}

		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Fatalf("Unexpected request shape: %+v", req)
		}

		if req.Contents[0].Parts[0].Text != "Hello" {
			t.Errorf("Prompt = %s, want Hello", req.Contents[0].Parts[0].Text)
		}

		// The adapter always sends its fixed generation parameters
		if req.GenerationConfig == nil {
			t.Fatal("GenerationConfig not set")
		}

		if req.GenerationConfig.MaxOutputTokens != maxOutputTokens {
			t.Errorf("MaxOutputTokens = %d, want %d", req.GenerationConfig.MaxOutputTokens, maxOutputTokens)
		}

		if req.GenerationConfig.Temperature != temperature {
			t.Errorf("Temperature = %f, want %f", req.GenerationConfig.Temperature, temperature)
		}

		resp := GeminiResponse{
			Candidates: []GeminiCandidate{
				{
					Content: GeminiContent{
						Role: "model",
						Parts: []GeminiPart{
							{Text: "This is a "},
							{Text: "test response"},
						},
					},
					FinishReason: "STOP",
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)

	text, err := adapter.Complete(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	// Text parts of the first candidate are joined
	if text != "This is a test response" {
		t.Errorf("Complete() = %s, want 'This is a test response'", text)
	}
}

func TestGeminiAdapter_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "Resource has been exhausted", "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)

	_, err := adapter.Complete(context.Background(), "test")
	if err == nil {
		t.Fatal("Expected error but got none")
	}

	var provErr *providers.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}

	if provErr.Provider != "gemini" {
		t.Errorf("Provider = %s, want gemini", provErr.Provider)
	}

	if provErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want %d", provErr.StatusCode, http.StatusTooManyRequests)
	}

	if provErr.Message != "Resource has been exhausted" {
		t.Errorf("Message = %s, want 'Resource has been exhausted'", provErr.Message)
	}

	if provErr.Error() != "gemini: Resource has been exhausted" {
		t.Errorf("Error() = %s, want 'gemini: Resource has been exhausted'", provErr.Error())
	}
}

func TestGeminiAdapter_Complete_MalformedErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`upstream exploded`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)

	_, err := adapter.Complete(context.Background(), "test")
	if err == nil {
		t.Fatal("Expected error but got none")
	}

	var provErr *providers.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}

	// Unparseable error bodies surface verbatim
	if provErr.Message != "upstream exploded" {
		t.Errorf("Message = %s, want 'upstream exploded'", provErr.Message)
	}
}

func TestGeminiAdapter_Complete_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)

	_, err := adapter.Complete(context.Background(), "test")
	if err == nil {
		t.Fatal("Expected error but got none")
	}

	var provErr *providers.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}

	if provErr.Message != "failed to unmarshal response" {
		t.Errorf("Message = %s, want 'failed to unmarshal response'", provErr.Message)
	}
}

func TestGeminiAdapter_Complete_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)

	_, err := adapter.Complete(context.Background(), "test")
	if err == nil {
		t.Fatal("Expected error but got none")
	}

	var provErr *providers.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}

	if provErr.Message != "empty completion response" {
		t.Errorf("Message = %s, want 'empty completion response'", provErr.Message)
	}
}

func TestGeminiAdapter_Complete_SingleAttempt(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": {"code": 503, "message": "service unavailable", "status": "UNAVAILABLE"}}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)

	_, err := adapter.Complete(context.Background(), "test")
	if err == nil {
		t.Fatal("Expected error but got none")
	}

	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", attempts)
	}
}

func TestGeminiAdapter_Complete_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := adapter.Complete(ctx, "test")
	if err == nil {
		t.Fatal("Expected error but got none")
	}

	var provErr *providers.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}
}
