package web

// errors.go renders request-level failures.
//
// The technical error is logged with the request id; the client gets the
// mapped user message from core.MapError. Per-file failures inside a batch
// are not request errors and are rendered by the results page instead.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/reportmap/internal/core"
	"github.com/JonMunkholm/reportmap/internal/logging"
	"github.com/JonMunkholm/reportmap/internal/web/templates"
)

// respondError logs err and renders the error page with statusCode.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context(), s.logger).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if rerr := templates.ErrorPage(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w); rerr != nil {
		s.logger.Error("render error page", "error", rerr)
	}
}

// statusFor picks the HTTP status for a request-level error.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
