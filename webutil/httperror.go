package webutil

import (
	"errors"
	"net/http"
)

const (
	msgBadRequest     = "Bad Request"
	msgNotFound       = "Resource not found"
	msgInternalServer = "Internal Server Error"
	msgForbidden      = "forbidden access"
	msgBadGateway     = "Payment provider unavailable"
)

// HTTPError is an error a handler returns to choose the reply status and
// the message shown to the client. The cause is only logged.
type HTTPError struct {
	cause   error
	Code    int
	Message string
}

func (he HTTPError) Error() string {
	return he.Message
}

func (he HTTPError) Unwrap() error {
	return he.cause
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{cause: errors.New(message), Code: code, Message: message}
}

func NewHTTPErrorWrap(code int, message string, cause error) *HTTPError {
	return &HTTPError{cause: cause, Code: code, Message: message}
}

// ErrBadRequest rejects malformed input; an empty message uses a generic one.
func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, orDefault(message, msgBadRequest))
}

func ErrBadRequestWrap(message string, cause error) *HTTPError {
	return NewHTTPErrorWrap(http.StatusBadRequest, orDefault(message, msgBadRequest), cause)
}

func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, orDefault(message, msgNotFound))
}

// ErrForbidden is returned by handlers that check ownership of a stored
// record after the route guards passed.
func ErrForbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, orDefault(message, msgForbidden))
}

// ErrBadGatewayWrap reports a failure of an upstream provider.
func ErrBadGatewayWrap(cause error) *HTTPError {
	return NewHTTPErrorWrap(http.StatusBadGateway, msgBadGateway, cause)
}
