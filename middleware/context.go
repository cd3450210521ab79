package middleware

import (
	"context"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// GetRequestIDFromContext retrieves the request ID injected by chi's
// RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimiddleware.GetReqID(ctx)
}

// WithRequestID adds a request ID to the context under the same key chi's
// RequestID middleware uses. Tests use this to exercise handlers without
// the full router.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, chimiddleware.RequestIDKey, requestID)
}
