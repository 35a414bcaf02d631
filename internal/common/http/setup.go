package http

import (
	"net/http"

	"github.com/streamforge/backend/internal/common/logger"
)

// BuildBaseHandler wraps a handler with the outer middleware chain shared by
// every endpoint. The request size limit covers multipart registration bodies,
// so it is configured by the caller.
func BuildBaseHandler(log *logger.Logger, maxBodyBytes int64, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(maxBodyBytes)

	return SecurityHeadersMiddleware(recovery(maxRequestSize(handler)))
}
