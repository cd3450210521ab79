package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/promptmux/relay/middleware"
	"github.com/promptmux/relay/services"
	"github.com/promptmux/relay/services/relay"
	"github.com/promptmux/relay/utils"
)

// testPrompt exercises the full failover chain without caller input
const testPrompt = "Hello, this is a test message."

// TestResponse is the success body for GET /test
type TestResponse struct {
	TestStatus string `json:"testStatus"`
	Provider   string `json:"provider"`
	Response   string `json:"response"`
	Timestamp  string `json:"timestamp"`
}

// TestErrorResponse is the failure body for GET /test
type TestErrorResponse struct {
	TestStatus string `json:"testStatus"`
	Error      string `json:"error"`
	Provider   string `json:"provider"`
	Timestamp  string `json:"timestamp"`
}

// TestHandler relays a fixed prompt so operators can verify the failover
// chain end to end. Only registered in multi-provider mode.
type TestHandler struct {
	service RelayService
	logger  *zap.Logger
}

// NewTestHandler creates a new TestHandler
func NewTestHandler(service RelayService, logger *zap.Logger) *TestHandler {
	return &TestHandler{
		service: service,
		logger:  logger,
	}
}

// HandleTest handles GET /test
func (h *TestHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)
	timestamp := time.Now().UTC().Format(time.RFC3339)

	result, err := h.service.Relay(ctx, testPrompt)
	if err != nil {
		h.logger.Error("test relay failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		if writeErr := utils.WriteJSON(w, http.StatusInternalServerError, TestErrorResponse{
			TestStatus: statusFailed,
			Error:      services.GetErrorMessage(err),
			Provider:   relay.NoProvider,
			Timestamp:  timestamp,
		}); writeErr != nil {
			h.logger.Error("failed to write test response", zap.Error(writeErr))
		}
		return
	}

	h.logger.Info("test relay succeeded",
		zap.String("request_id", requestID),
		zap.String("provider", result.Provider))

	if err := utils.WriteOK(w, TestResponse{
		TestStatus: statusSuccess,
		Provider:   result.Provider,
		Response:   result.Response,
		Timestamp:  timestamp,
	}); err != nil {
		h.logger.Error("failed to write test response", zap.Error(err))
	}
}
