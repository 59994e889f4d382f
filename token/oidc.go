package token

import (
	"context"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-auth/httpcall"
	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
)

// IDTokenClaims are the claims Twitch places in an OIDC id_token when the
// openid scope was requested.
type IDTokenClaims struct {
	Email             string `json:"email,omitempty"`
	EmailVerified     bool   `json:"email_verified,omitempty"`
	Picture           string `json:"picture,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Nonce             string `json:"nonce,omitempty"`
	jwt.RegisteredClaims
}

// ParseIDTokenClaims extracts the claims without verifying the signature.
// Use VerifyIDToken when authenticity matters; this parse is for pulling
// display fields out of an id_token that was just received over TLS from the
// issuer.
func ParseIDTokenClaims(rawIDToken string) (*IDTokenClaims, error) {
	claims := &IDTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		return nil, errors.Wrap(err, "token.ParseIDTokenClaims")
	}
	return claims, nil
}

// VerifyIDToken checks the id_token's signature and audience against the
// Twitch issuer. Discovery and JWKS fetches are routed through the injected
// Caller.
func VerifyIDToken(ctx context.Context, call httpcall.Caller, clientID, rawIDToken string) (*oidc.IDToken, error) {
	client := &http.Client{Transport: httpcall.Transport{Call: call}}
	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), oauthmodel.Issuer)
	if err != nil {
		return nil, errors.Wrap(err, "token.VerifyIDToken discovery")
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}).Verify(ctx, rawIDToken)
}
