package routehandlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreybb/learnlanguage/webutil"
)

func requestWithEmailParam(raw string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(ParamEmail, raw)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestEmailParam(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "a@x.com", want: "a@x.com"},
		{raw: "a%40x.com", want: "a@x.com"},
		{raw: "a+b%40x.com", want: "a+b@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := emailParam(requestWithEmailParam(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := emailParam(requestWithEmailParam("a%zzx.com"))
	var httpErr *webutil.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
