package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/auth"
	"github.com/vytor/studybook/internal/models"
)

const secret = "test-secret-at-least-16"

func TestVerify_RoundTrip(t *testing.T) {
	token, err := auth.Issue(secret, "user-42", "ada@example.com", time.Hour)
	require.NoError(t, err)

	p, err := auth.NewVerifier(secret).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", p.UserID)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.True(t, p.Authenticated())
}

func TestVerify_Rejects(t *testing.T) {
	v := auth.NewVerifier(secret)

	wrongKey, err := auth.Issue("another-secret-value", "user-1", "", time.Hour)
	require.NoError(t, err)
	expired, err := auth.Issue(secret, "user-1", "", -time.Hour)
	require.NoError(t, err)
	noSubject, err := auth.Issue(secret, "", "", time.Hour)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).SignedString([]byte(secret))
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong key":  wrongKey,
		"expired":    expired,
		"no subject": noSubject,
		"no expiry":  noExpiry,
		"hs512":      hs512,
		"garbage":    "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tok, err := auth.BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = auth.BearerToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	_, err = auth.BearerToken("")
	assert.ErrorIs(t, err, auth.ErrMissingToken)
	_, err = auth.BearerToken("Basic abc")
	assert.ErrorIs(t, err, auth.ErrMalformed)
	_, err = auth.BearerToken("Bearer ")
	assert.ErrorIs(t, err, auth.ErrMalformed)
}

func TestContext(t *testing.T) {
	assert.False(t, auth.FromContext(context.Background()).Authenticated())

	ctx := auth.NewContext(context.Background(), models.Principal{UserID: "user-7"})
	assert.Equal(t, "user-7", auth.FromContext(ctx).UserID)
}
