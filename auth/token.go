// Package auth issues and verifies bearer tokens and guards routes with
// self-match and role-match checks.
package auth

import (
	"fmt"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of every issued token. There is no refresh;
// an expired token means the client has to authenticate again.
const TokenTTL = time.Hour

const (
	claimEmail     = "email"
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
)

// Claims is the identity carried by a signed token.
type Claims struct {
	// Email is the identity the guards match against resource owners.
	// It is empty when the signed payload had no string "email".
	Email string
	// Payload is the object the token was issued for, without iat and exp.
	Payload map[string]any
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens with a server-held secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, ttl: TokenTTL, now: time.Now}
}

// Issue signs payload as the token's claims, expiring TokenTTL from now.
// Any iat or exp in payload is replaced.
func (c *Codec) Issue(payload map[string]any) (string, error) {
	issuedAt := c.now()
	claims := make(jwt.MapClaims, len(payload)+2)
	maps.Copy(claims, payload)
	claims[claimIssuedAt] = jwt.NewNumericDate(issuedAt)
	claims[claimExpiresAt] = jwt.NewNumericDate(issuedAt.Add(c.ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns its claims. Every failure wraps
// ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, mapClaims,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claimsFromMap(mapClaims)
}

func claimsFromMap(m jwt.MapClaims) (*Claims, error) {
	expiresAt, err := m.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	issuedAt, err := m.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	payload := make(map[string]any, len(m))
	for key, value := range m {
		if key == claimIssuedAt || key == claimExpiresAt {
			continue
		}
		payload[key] = value
	}
	email, _ := payload[claimEmail].(string)

	return &Claims{
		Email:   email,
		Payload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	}, nil
}
