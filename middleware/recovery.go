package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/promptmux/relay/utils"
)

// Recoverer returns a middleware that converts any panic escaping a handler
// into the generic JSON 500 response. The recovered value is echoed in the
// detail field; the stack trace is logged server-side and never written to
// the client. The server keeps serving after any recovery.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						// net/http uses this sentinel to abort the reply;
						// suppressing it would break that contract.
						panic(rvr)
					}

					logger.Error("panic recovered",
						zap.String("request_id", GetRequestIDFromContext(r.Context())),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", rvr),
						zap.String("stack", string(debug.Stack())))

					if err := utils.WriteInternalServerError(w, fmt.Sprint(rvr)); err != nil {
						logger.Error("failed to write recovery response", zap.Error(err))
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
