package auth

import "context"

type contextKey int

const claimsKey contextKey = iota

// WithClaims returns a copy of ctx carrying verified claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims attached by the authentication
// middleware, or nil for an unauthenticated context.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// EmailFromContext returns the authenticated caller's email, or "".
func EmailFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Email
}
