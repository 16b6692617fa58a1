package routehandlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/coreybb/learnlanguage/webutil"
)

// Route and query parameter names shared with the api router.
const (
	ParamEmail = "email"
	ParamID    = "id"
)

// emailParam returns the email path parameter, percent-decoded. chi matches
// on the raw path, so "a%40x.com" arrives undecoded.
func emailParam(r *http.Request) (string, error) {
	email, err := url.PathUnescape(chi.URLParam(r, ParamEmail))
	if err != nil {
		return "", webutil.ErrBadRequestWrap("Invalid email path parameter", err)
	}
	return email, nil
}
