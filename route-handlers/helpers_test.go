package routehandlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/coreybb/learnlanguage/auth"
	"github.com/coreybb/learnlanguage/datastore/memory"
	"github.com/coreybb/learnlanguage/models"
	"github.com/coreybb/learnlanguage/webutil"
)

// serve routes one request through a chi router mounted at pattern, with
// caller (when set) attached as the authenticated identity.
func serve(t *testing.T, method, pattern, target, body, caller string, h webutil.AppHandler) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Method(method, pattern, webutil.MakeHandler(h))

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if caller != "" {
		req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{Email: caller}))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func seedUser(t *testing.T, store *memory.Store, email string, role models.Role) {
	t.Helper()
	require.NoError(t, store.CreateUser(context.Background(), &models.User{
		Email:     email,
		Name:      strings.Split(email, "@")[0],
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}))
}

func seedCourse(t *testing.T, store *memory.Store, course models.Course) models.Course {
	t.Helper()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	require.NoError(t, store.CreateCourse(context.Background(), &course))
	return course
}
