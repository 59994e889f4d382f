package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
	"github.com/jrsteele09/go-twitch-auth/token"
)

func TestParseIDTokenClaims(t *testing.T) {
	claims := token.IDTokenClaims{
		Email:             "john.doe@example.com",
		EmailVerified:     true,
		PreferredUsername: testLogin,
		Nonce:             "random-nonce-value",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    oauthmodel.Issuer,
			Subject:   testUserID,
			Audience:  jwt.ClaimStrings{testClientID},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	parsed, err := token.ParseIDTokenClaims(raw)
	require.NoError(t, err)
	require.Equal(t, "john.doe@example.com", parsed.Email)
	require.True(t, parsed.EmailVerified)
	require.Equal(t, testLogin, parsed.PreferredUsername)
	require.Equal(t, "random-nonce-value", parsed.Nonce)
	require.Equal(t, oauthmodel.Issuer, parsed.Issuer)
	require.Equal(t, testUserID, parsed.Subject)
	require.Equal(t, jwt.ClaimStrings{testClientID}, parsed.Audience)
}

func TestParseIDTokenClaimsRejectsGarbage(t *testing.T) {
	_, err := token.ParseIDTokenClaims("not-a-jwt")
	require.Error(t, err)
}
