package routehandlers

import (
	"fmt"
	"net/http"

	"github.com/coreybb/learnlanguage/webutil"
)

// TokenIssuer signs an access token carrying payload as its claims.
type TokenIssuer interface {
	Issue(payload map[string]any) (string, error)
}

type TokenHandler struct {
	Issuer TokenIssuer
}

func NewTokenHandler(issuer TokenIssuer) *TokenHandler {
	return &TokenHandler{Issuer: issuer}
}

// HandleIssueToken signs the JSON object in the body as-is and replies with
// the bare token. Only the "email" field is used by the route guards; a
// token without one authenticates but owns nothing.
func (h *TokenHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) error {
	var payload map[string]any
	if err := webutil.DecodeJSON(r, &payload, false); err != nil {
		return err
	}
	if payload == nil {
		return webutil.ErrBadRequest("Request body must be a JSON object")
	}

	token, err := h.Issuer.Issue(payload)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	webutil.RespondWithText(w, http.StatusOK, token)
	return nil
}
