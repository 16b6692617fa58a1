package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func issueFor(t *testing.T, codec *Codec, email string) string {
	t.Helper()
	token, err := codec.Issue(map[string]any{"email": email})
	require.NoError(t, err)
	return token
}

func TestCodec_IssueAndVerify(t *testing.T) {
	codec := NewCodec(testSecret)
	payload := map[string]any{
		"email": "a@x.com",
		"name":  "Ann",
		"role":  "student",
		"photo": "https://img.example/a.png",
	}

	token, err := codec.Issue(payload)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, payload, claims.Payload)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, TokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestCodec_Issue_OverridesLifetimeClaims(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	codec := NewCodec(testSecret)
	codec.now = fixedClock(issuedAt)

	token, err := codec.Issue(map[string]any{"email": "a@x.com", "exp": 4102444800, "iat": 0})
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.True(t, issuedAt.Add(TokenTTL).Equal(claims.ExpiresAt.Time))
	assert.Equal(t, map[string]any{"email": "a@x.com"}, claims.Payload)
}

func TestCodec_Verify_WithoutEmail(t *testing.T) {
	codec := NewCodec(testSecret)

	token, err := codec.Issue(map[string]any{"email": 42, "name": "Ann"})
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Email)
	assert.Equal(t, "Ann", claims.Payload["name"])
}

func TestCodec_Verify_Expired(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	codec := NewCodec(testSecret)
	codec.now = fixedClock(issuedAt)

	token := issueFor(t, codec, "a@x.com")

	codec.now = fixedClock(issuedAt.Add(59 * time.Minute))
	_, err := codec.Verify(token)
	require.NoError(t, err)

	codec.now = fixedClock(issuedAt.Add(TokenTTL + time.Second))
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestCodec_Verify_Rejects(t *testing.T) {
	codec := NewCodec(testSecret)
	exp := time.Now().Add(time.Hour).Unix()

	foreign := issueFor(t, NewCodec([]byte("other-secret")), "a@x.com")

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"email": "a@x.com", "exp": exp,
	}).SignedString(testSecret)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "a@x.com", "exp": exp,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@x.com"}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "signed with another secret", token: foreign},
		{name: "unexpected algorithm", token: hs512},
		{name: "alg none", token: unsigned},
		{name: "missing expiry", token: noExpiry},
		{name: "malformed", token: "not.a.token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
