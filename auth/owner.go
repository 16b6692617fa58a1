package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// maxOwnerBodyBytes bounds how much of a request body FromJSONField buffers.
const maxOwnerBodyBytes = 1 << 20

// OwnerFunc names the user a request claims to act for.
type OwnerFunc func(r *http.Request) (string, error)

// FromURLParam reads the owner from a chi route parameter. chi matches on
// the raw path when the client escaped it, so the value is percent-decoded.
func FromURLParam(name string) OwnerFunc {
	return func(r *http.Request) (string, error) {
		email, err := url.PathUnescape(chi.URLParam(r, name))
		if err != nil {
			return "", fmt.Errorf("invalid %s path parameter: %w", name, err)
		}
		return email, nil
	}
}

// FromQuery reads the owner from a query string parameter.
func FromQuery(name string) OwnerFunc {
	return func(r *http.Request) (string, error) {
		return r.URL.Query().Get(name), nil
	}
}

// FromJSONField reads the owner from a top-level string field of a JSON
// body. The body is restored so the handler can decode it again.
func FromJSONField(field string) OwnerFunc {
	return func(r *http.Request) (string, error) {
		if r.Body == nil {
			return "", nil
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxOwnerBodyBytes))
		r.Body.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read request body: %w", err)
		}
		r.Body = io.NopCloser(bytes.NewReader(raw))

		if len(bytes.TrimSpace(raw)) == 0 {
			return "", nil
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return "", fmt.Errorf("failed to decode request body: %w", err)
		}
		value, ok := fields[field]
		if !ok {
			return "", nil
		}
		var email string
		if err := json.Unmarshal(value, &email); err != nil {
			return "", fmt.Errorf("field %q is not a string: %w", field, err)
		}
		return email, nil
	}
}

// FromClaims treats the authenticated caller as the owner, for routes whose
// ownership is checked by the handler against a stored record.
func FromClaims() OwnerFunc {
	return func(r *http.Request) (string, error) {
		return EmailFromContext(r.Context()), nil
	}
}

// FirstOf returns the first non-empty owner produced by sources.
func FirstOf(sources ...OwnerFunc) OwnerFunc {
	return func(r *http.Request) (string, error) {
		for _, source := range sources {
			email, err := source(r)
			if err != nil {
				return "", err
			}
			if email != "" {
				return email, nil
			}
		}
		return "", nil
	}
}
