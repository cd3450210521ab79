package health

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/promptmux/relay/services/providers"
)

// probePrompt is sent to every provider. The completion text is discarded;
// only success or failure matters.
const probePrompt = "Hello"

// Provider probe statuses
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Check is the probe outcome for a single provider
type Check struct {
	Provider string
	Status   string
}

// HealthService probes every provider for liveness
type HealthService struct {
	providers []providers.Provider
	logger    *zap.Logger
}

// NewHealthService creates a new health service. The list order determines
// the order of the returned checks.
func NewHealthService(providerList []providers.Provider, logger *zap.Logger) *HealthService {
	return &HealthService{
		providers: providerList,
		logger:    logger,
	}
}

// CheckProviders probes all providers concurrently and waits for every
// outcome. It returns exactly one entry per provider in list order, never
// short-circuits and never fails; providers that error are reported
// unhealthy.
func (s *HealthService) CheckProviders(ctx context.Context) []Check {
	// Each goroutine writes only its own slot, so results cannot be
	// misattributed regardless of completion order.
	checks := make([]Check, len(s.providers))

	var wg sync.WaitGroup
	for i, provider := range s.providers {
		wg.Add(1)
		go func(i int, provider providers.Provider) {
			defer wg.Done()

			status := StatusHealthy
			if _, err := provider.Complete(ctx, probePrompt); err != nil {
				status = StatusUnhealthy
				s.logger.Warn("provider health probe failed",
					zap.String("provider", provider.Name()),
					zap.Error(err))
			}

			checks[i] = Check{
				Provider: provider.Name(),
				Status:   status,
			}
		}(i, provider)
	}
	wg.Wait()

	return checks
}
