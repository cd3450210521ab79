package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/promptmux/relay/services/health"
	"github.com/promptmux/relay/utils"
)

// HealthService defines the interface for provider health probing
type HealthService interface {
	// CheckProviders probes every provider and reports one outcome per
	// provider in list order
	CheckProviders(ctx context.Context) []health.Check
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service       HealthService
	multiProvider bool
	logger        *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(service HealthService, multiProvider bool, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		service:       service,
		multiProvider: multiProvider,
		logger:        logger,
	}
}

// HandleHealth handles GET /health. The HTTP status is always 200; probe
// failures surface only in the body.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := h.service.CheckProviders(r.Context())

	response := map[string]interface{}{
		"server":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.multiProvider {
		providers := make(map[string]string, len(checks))
		for _, check := range checks {
			providers[check.Provider] = check.Status
		}
		response["providers"] = providers
	} else {
		// Single-provider deployments report the one probe as a top-level key.
		for _, check := range checks {
			response[check.Provider] = check.Status
		}
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write health response", zap.Error(err))
	}
}
