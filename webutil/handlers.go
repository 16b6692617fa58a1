package webutil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coreybb/learnlanguage/datastore"
)

// AppHandler represents a handler function that returns an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to the standard http.HandlerFunc signature.
// It executes the AppHandler and handles any returned error by logging appropriately
// and sending a standardized JSON error response.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		var httpErr *HTTPError
		var publicMessage string
		var statusCode int

		switch {
		case errors.As(err, &httpErr):
			statusCode = httpErr.Code
			publicMessage = httpErr.Message
			logLevel := slog.LevelWarn
			if statusCode >= 500 {
				logLevel = slog.LevelError
			}
			// Log the underlying cause if present and different from the public message
			cause := errors.Unwrap(httpErr)
			if cause != nil && cause.Error() != publicMessage {
				slog.Log(r.Context(), logLevel, "Client error response",
					"code", httpErr.Code,
					"msg", httpErr.Message,
					"cause", cause,
					"path", r.URL.Path,
					"method", r.Method,
				)
			} else {
				slog.Log(r.Context(), logLevel, "Client error response",
					"code", httpErr.Code,
					"msg", httpErr.Message,
					"path", r.URL.Path,
					"method", r.Method,
				)
			}

		case errors.Is(err, datastore.ErrNotFound):
			statusCode = http.StatusNotFound
			publicMessage = msgNotFound
			slog.Info("Resource not found", "path", r.URL.Path, "method", r.Method, "error", err)

		default:
			statusCode = http.StatusInternalServerError
			publicMessage = msgInternalServer
			slog.Error("Unhandled internal error", "path", r.URL.Path, "method", r.Method, "error", err)
		}

		if HasResponseWriterSentHeader(w) {
			slog.Warn("Handler returned error after writing response header",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err,
			)
			return
		}

		RespondWithError(w, statusCode, publicMessage)
	}
}

// HasResponseWriterSentHeader reports whether w has already committed a
// status line. Writers that do not expose that state are assumed unsent.
func HasResponseWriterSentHeader(w http.ResponseWriter) bool {
	if sw, ok := w.(interface{ Status() int }); ok {
		return sw.Status() != 0
	}
	return false
}
