package webutil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
	RespondWithJSON(w, code, ErrorResponse{Error: true, Message: message})
}

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":true,"message":"Internal Server Error"}`))
		return
	}

	w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondWithText writes body as a plain-text reply.
func RespondWithText(w http.ResponseWriter, status int, body string) {
	w.Header().Set(HeaderContentType, ContentTypeTextPlainUTF8)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields
// when strict is set.
func DecodeJSON(r *http.Request, dst any, strict bool) error {
	if r.Body == nil {
		return ErrBadRequest("Request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	if strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(dst); err != nil {
		return ErrBadRequestWrap("Invalid request payload: "+err.Error(), err)
	}
	return nil
}
