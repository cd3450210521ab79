package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/promptmux/relay/middleware"
	"github.com/promptmux/relay/services/relay"
	"github.com/promptmux/relay/utils"
)

// Relay outcome statuses reported in multi-provider response bodies
const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// PromptRequest is the body for POST /
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// PromptResponse is the success body for POST /. Provider and Status are
// populated in multi-provider mode only.
type PromptResponse struct {
	Bot      string `json:"bot"`
	Provider string `json:"provider,omitempty"`
	Status   string `json:"status,omitempty"`
}

// RelayService defines the interface for prompt relay operations
type RelayService interface {
	// Relay forwards the prompt to providers in priority order and returns
	// the first successful completion
	Relay(ctx context.Context, prompt string) (*relay.Result, error)
}

// CompletionHandler handles prompt submission requests
type CompletionHandler struct {
	service       RelayService
	multiProvider bool
	logger        *zap.Logger
}

// NewCompletionHandler creates a new CompletionHandler
func NewCompletionHandler(service RelayService, multiProvider bool, logger *zap.Logger) *CompletionHandler {
	return &CompletionHandler{
		service:       service,
		multiProvider: multiProvider,
		logger:        logger,
	}
}

// HandleCompletion handles POST /
func (h *CompletionHandler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	// Parse request body
	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body")
		return
	}

	// Validate request; no provider is contacted on failure
	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	h.logger.Debug("relaying prompt",
		zap.String("request_id", requestID),
		zap.Int("prompt_length", len(req.Prompt)))

	result, err := h.service.Relay(ctx, req.Prompt)
	if err != nil {
		h.logger.Error("relay failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, err, h.multiProvider, h.logger)
		return
	}

	response := PromptResponse{Bot: result.Response}
	if h.multiProvider {
		response.Provider = result.Provider
		response.Status = statusSuccess
	}

	h.logger.Info("prompt relayed",
		zap.String("request_id", requestID),
		zap.String("provider", result.Provider))

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
