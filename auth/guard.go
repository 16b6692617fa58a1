package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreybb/learnlanguage/models"
	"github.com/coreybb/learnlanguage/webutil"
)

// RoleLookup resolves the stored role of a user. found is false when the
// user does not exist; err is reserved for store failures.
type RoleLookup interface {
	LookupRole(ctx context.Context, email string) (role models.Role, found bool, err error)
}

// Guard bundles the authentication and authorization middleware. It holds
// no per-request state and is safe for concurrent use.
type Guard struct {
	codec *Codec
	roles RoleLookup
}

func NewGuard(codec *Codec, roles RoleLookup) *Guard {
	return &Guard{codec: codec, roles: roles}
}

// Authenticate verifies the bearer token and attaches its claims to the
// request context. Requests without a valid token are rejected with 401
// and never reach next.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.authenticate(r)
		if err != nil {
			slog.Log(r.Context(), slog.LevelWarn, "Rejected unauthenticated request",
				"path", r.URL.Path,
				"method", r.Method,
				"cause", err,
			)
			webutil.RespondWithError(w, http.StatusUnauthorized, msgUnauthorizedAccess)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (g *Guard) authenticate(r *http.Request) (*Claims, error) {
	header := r.Header.Get(webutil.HeaderAuthorization)
	if header == "" {
		return nil, fmt.Errorf("%w: missing authorization header", ErrUnauthenticated)
	}
	token, ok := strings.CutPrefix(header, webutil.AuthSchemeBearer)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported authorization scheme", ErrUnauthenticated)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty bearer token", ErrUnauthenticated)
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return claims, nil
}

// RequireSelf fails with ErrForbidden unless the authenticated caller is
// ownerEmail.
func RequireSelf(ctx context.Context, ownerEmail string) error {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return fmt.Errorf("%w: no authenticated identity", ErrForbidden)
	}
	if ownerEmail == "" || claims.Email != ownerEmail {
		return fmt.Errorf("%w: caller does not own resource", ErrForbidden)
	}
	return nil
}

// RequireRole runs RequireSelf and then checks that ownerEmail is stored
// with role. A missing user record is a forbidden caller, not a fault.
// Acting on behalf of another user is not supported.
func (g *Guard) RequireRole(ctx context.Context, ownerEmail string, role models.Role) error {
	if err := RequireSelf(ctx, ownerEmail); err != nil {
		return err
	}

	stored, found, err := g.roles.LookupRole(ctx, ownerEmail)
	if err != nil {
		return fmt.Errorf("failed to look up role for %s: %w", ownerEmail, err)
	}
	if !found {
		return fmt.Errorf("%w: no user record for caller", ErrForbidden)
	}
	if stored != role {
		return fmt.Errorf("%w: role %q required", ErrForbidden, role)
	}
	return nil
}

// Self returns middleware enforcing RequireSelf against the owner named by
// owner. It must be mounted after Authenticate.
func (g *Guard) Self(owner OwnerFunc) func(http.Handler) http.Handler {
	return g.check(owner, func(ctx context.Context, email string) error {
		return RequireSelf(ctx, email)
	})
}

// Role returns middleware enforcing RequireRole for role against the owner
// named by owner. It must be mounted after Authenticate.
func (g *Guard) Role(owner OwnerFunc, role models.Role) func(http.Handler) http.Handler {
	return g.check(owner, func(ctx context.Context, email string) error {
		return g.RequireRole(ctx, email, role)
	})
}

func (g *Guard) check(owner OwnerFunc, verify func(ctx context.Context, email string) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := owner(r)
			if err != nil {
				slog.Log(r.Context(), slog.LevelWarn, "Could not resolve resource owner",
					"path", r.URL.Path,
					"method", r.Method,
					"cause", err,
				)
				webutil.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
				return
			}

			if err := verify(r.Context(), email); err != nil {
				if errors.Is(err, ErrForbidden) {
					slog.Log(r.Context(), slog.LevelWarn, "Rejected forbidden request",
						"path", r.URL.Path,
						"method", r.Method,
						"caller", EmailFromContext(r.Context()),
						"owner", email,
						"cause", err,
					)
					webutil.RespondWithError(w, http.StatusForbidden, msgForbiddenAccess)
					return
				}
				slog.Log(r.Context(), slog.LevelError, "Authorization check failed",
					"path", r.URL.Path,
					"method", r.Method,
					"owner", email,
					"error", err,
				)
				webutil.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
