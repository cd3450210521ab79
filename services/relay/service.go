package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptmux/relay/services"
	"github.com/promptmux/relay/services/providers"
)

// NoProvider is the provider name reported when every provider has failed
const NoProvider = "None"

var (
	// ErrNoProvidersConfigured is returned when the service is built with an
	// empty provider list. Startup must reject this configuration.
	ErrNoProvidersConfigured = errors.New("at least one provider is required")
)

// ExhaustedError is returned when every provider in the failover order has
// failed. Only the final provider's error is retained; earlier errors are
// visible in the logs but not in the error value.
type ExhaustedError struct {
	Attempts int
	LastErr  error
}

// Error implements the error interface
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("All providers failed. Last error: %v", e.LastErr)
}

// Unwrap implements error unwrapping
func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}

// Result represents a successful relay outcome
type Result struct {
	Response string
	Provider string
}

// RelayService forwards prompts to providers in a fixed priority order
type RelayService struct {
	providers []providers.Provider
	logger    *zap.Logger
}

// NewRelayService creates a new relay service. The list order is the failover
// priority order and never changes afterwards.
func NewRelayService(providerList []providers.Provider, logger *zap.Logger) (*RelayService, error) {
	if len(providerList) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	return &RelayService{
		providers: providerList,
		logger:    logger,
	}, nil
}

// Relay sends the prompt to each provider in priority order and returns the
// first successful completion. Attempts are strictly sequential: a provider
// is only contacted after every earlier one has failed.
func (s *RelayService) Relay(ctx context.Context, prompt string) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, services.ErrEmptyPrompt
	}

	relayID := uuid.New().String()
	startTime := time.Now()

	s.logger.Info("starting relay",
		zap.String("relay_id", relayID),
		zap.Int("provider_count", len(s.providers)))

	var lastErr error
	for i, provider := range s.providers {
		s.logger.Debug("attempting provider",
			zap.String("relay_id", relayID),
			zap.String("provider", provider.Name()),
			zap.Int("position", i+1))

		response, err := provider.Complete(ctx, prompt)
		if err == nil {
			s.logger.Info("relay succeeded",
				zap.String("relay_id", relayID),
				zap.String("provider", provider.Name()),
				zap.Duration("duration", time.Since(startTime)))

			return &Result{
				Response: response,
				Provider: provider.Name(),
			}, nil
		}

		lastErr = err
		s.logger.Warn("provider attempt failed",
			zap.String("relay_id", relayID),
			zap.String("provider", provider.Name()),
			zap.Error(err))
	}

	s.logger.Error("all providers failed",
		zap.String("relay_id", relayID),
		zap.Int("attempts", len(s.providers)),
		zap.Duration("duration", time.Since(startTime)),
		zap.Error(lastErr))

	return nil, &ExhaustedError{
		Attempts: len(s.providers),
		LastErr:  lastErr,
	}
}
