package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreybb/learnlanguage/datastore"
)

func TestMakeHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "bad request",
			err:         ErrBadRequest("Email is required"),
			wantCode:    http.StatusBadRequest,
			wantMessage: "Email is required",
		},
		{
			name:        "default not found message",
			err:         ErrNotFound(""),
			wantCode:    http.StatusNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "forbidden",
			err:         ErrForbidden(""),
			wantCode:    http.StatusForbidden,
			wantMessage: "forbidden access",
		},
		{
			name:        "bad request keeps cause out of reply",
			err:         ErrBadRequestWrap("price must be a positive amount", errors.New("payment amount must be positive: -50")),
			wantCode:    http.StatusBadRequest,
			wantMessage: "price must be a positive amount",
		},
		{
			name:        "wrapped error hides cause",
			err:         fmt.Errorf("failed to load user: %w", errors.New("pq: connection refused")),
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
		{
			name:        "bad gateway",
			err:         ErrBadGatewayWrap(errors.New("card declined")),
			wantCode:    http.StatusBadGateway,
			wantMessage: "Payment provider unavailable",
		},
		{
			name:        "wrapped datastore not found",
			err:         fmt.Errorf("course 1: %w", datastore.ErrNotFound),
			wantCode:    http.StatusNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "plain error",
			err:         errors.New("boom"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := MakeHandler(func(w http.ResponseWriter, r *http.Request) error {
				return tt.err
			})

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, ContentTypeJSONUTF8, rec.Header().Get(HeaderContentType))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.True(t, body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestMakeHandler_Success(t *testing.T) {
	h := MakeHandler(func(w http.ResponseWriter, r *http.Request) error {
		RespondWithJSON(w, http.StatusCreated, map[string]string{"token": "abc"})
		return nil
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/jwt", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"token":"abc"}`, rec.Body.String())
}

func TestMakeHandler_ErrorAfterHeaderSent(t *testing.T) {
	h := MakeHandler(func(w http.ResponseWriter, r *http.Request) error {
		RespondWithJSON(w, http.StatusOK, map[string]int{"deletedCount": 1})
		return errors.New("late failure")
	})

	rec := httptest.NewRecorder()
	ww := middleware.NewWrapResponseWriter(rec, 1)
	h(ww, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deletedCount":1}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	t.Run("lenient ignores unknown fields", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","name":"A"}`))
		require.NoError(t, DecodeJSON(req, &p, false))
		assert.Equal(t, "a@x.com", p.Email)
	})

	t.Run("strict rejects unknown fields", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","name":"A"}`))
		err := DecodeJSON(req, &p, true)

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("malformed", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		assert.Error(t, DecodeJSON(req, &p, false))
	})
}
