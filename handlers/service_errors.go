package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/promptmux/relay/services"
	"github.com/promptmux/relay/services/relay"
	"github.com/promptmux/relay/utils"
)

// HandleServiceError maps service errors to HTTP responses. In multi-provider
// mode exhausted-relay bodies carry the provider sentinel and a failed status
// alongside the message.
func HandleServiceError(w http.ResponseWriter, err error, multiProvider bool, logger *zap.Logger) {
	if err == nil {
		return
	}

	var exhausted *relay.ExhaustedError

	switch {
	case services.IsValidationError(err):
		if writeErr := utils.WriteBadRequest(w, services.GetErrorMessage(err)); writeErr != nil {
			logger.Error("failed to write bad request response", zap.Error(writeErr))
		}

	case errors.As(err, &exhausted):
		response := utils.ErrorResponse{Error: exhausted.Error()}
		if multiProvider {
			response.Provider = relay.NoProvider
			response.Status = statusFailed
		}
		if writeErr := utils.WriteJSON(w, http.StatusInternalServerError, response); writeErr != nil {
			logger.Error("failed to write relay failure response", zap.Error(writeErr))
		}

	default:
		// Unknown error type. The body carries a generic message plus the
		// error text as detail, never internals.
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		if writeErr := utils.WriteInternalServerError(w, err.Error()); writeErr != nil {
			logger.Error("failed to write internal error response", zap.Error(writeErr))
		}
	}
}

// HandleValidationError handles validation errors from request parsing. The
// validation message is surfaced verbatim in the error field.
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if writeErr := utils.WriteBadRequest(w, err.Error()); writeErr != nil {
		logger.Error("failed to write validation error response", zap.Error(writeErr))
	}
}
