package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/promptmux/relay/utils"
)

// ServiceInfo is the body for GET /
type ServiceInfo struct {
	Service   string            `json:"service"`
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Providers []string          `json:"providers"`
	Endpoints map[string]string `json:"endpoints"`
}

// RootHandler serves static service metadata
type RootHandler struct {
	info   ServiceInfo
	logger *zap.Logger
}

// NewRootHandler creates a new RootHandler. The metadata is assembled once
// at startup; serving it never touches a provider.
func NewRootHandler(providerNames []string, multiProvider bool, logger *zap.Logger) *RootHandler {
	endpoints := map[string]string{
		"POST /":      "relay a prompt to the configured providers",
		"GET /health": "probe every provider and report liveness",
	}
	if multiProvider {
		endpoints["GET /test"] = "relay a fixed test prompt through the failover chain"
	}

	return &RootHandler{
		info: ServiceInfo{
			Service:   "prompt-relay",
			Status:    "running",
			Version:   "1.0.0",
			Providers: providerNames,
			Endpoints: endpoints,
		},
		logger: logger,
	}
}

// HandleRoot handles GET /
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if err := utils.WriteOK(w, h.info); err != nil {
		h.logger.Error("failed to write service info", zap.Error(err))
	}
}
