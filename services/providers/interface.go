package providers

import (
	"context"
	"fmt"
	"time"
)

// Provider is the unified surface for one upstream LLM vendor. Each adapter
// is constructed with a fixed model and generation parameters; Complete is a
// single attempt against the vendor API with no retries.
type Provider interface {
	// Name returns the provider name (e.g., "groq", "gemini", "anthropic")
	Name() string

	// Complete sends a prompt to the vendor and returns the generated text.
	// Failures come back as *ProviderError with the vendor detail normalized
	// into the message.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderConfig holds common configuration for vendor adapters
type ProviderConfig struct {
	// APIKey for authentication
	APIKey string

	// BaseURL for the API (optional override)
	BaseURL string

	// Model is the fixed model identifier used for every request
	Model string

	// Timeout for requests
	Timeout time.Duration
}

// ProviderError represents a normalized error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Message is the normalized error description
	Message string

	// StatusCode is the HTTP status code from the vendor (if applicable)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, message string, statusCode int, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}
