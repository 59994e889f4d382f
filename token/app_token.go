package token

import (
	"context"
	"net/url"
	"time"

	"github.com/jrsteele09/go-twitch-auth/httpcall"
	"github.com/jrsteele09/go-twitch-auth/internal/utils"
	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
	"github.com/jrsteele09/go-twitch-auth/scopes"
)

// AppAccessToken is a bearer token obtained through the client credentials
// grant. It carries no user identity. Twitch normally issues these without a
// refresh token, in which case Refresh fails and a new token has to be
// requested instead.
type AppAccessToken struct {
	accessToken   string
	clientID      string
	clientSecret  string
	refreshToken  string
	expiresIn     time.Duration
	createdAt     time.Time
	scopes        []scopes.Scope
	neverExpiring bool
	nowFunc       func() time.Time
}

var _ Bearer = (*AppAccessToken)(nil)

// NewAppAccessToken performs the client credentials exchange.
func NewAppAccessToken(ctx context.Context, call httpcall.Caller, clientID, clientSecret string, requested []scopes.Scope, options ...TokenOption) (*AppAccessToken, error) {
	form := url.Values{}
	form.Set("grant_type", oauthmodel.GrantClientCredentials)
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	if len(requested) > 0 {
		form.Set("scope", scopes.Join(requested))
	}

	resp, err := postGrant(ctx, call, form)
	if err != nil {
		return nil, err
	}
	tokenResp, err := decodeTokenResponse(resp)
	if err != nil {
		return nil, err
	}

	cfg := applyTokenOptions(options)
	t := &AppAccessToken{
		accessToken:   tokenResp.AccessToken,
		clientID:      clientID,
		clientSecret:  clientSecret,
		refreshToken:  utils.Value(tokenResp.RefreshToken),
		expiresIn:     time.Duration(tokenResp.ExpiresIn) * time.Second,
		scopes:        scopes.FromStrings(tokenResp.Scope),
		neverExpiring: tokenResp.ExpiresIn == 0,
		nowFunc:       cfg.nowFunc,
	}
	t.createdAt = t.now()
	return t, nil
}

func (t *AppAccessToken) TokenType() Type        { return AppTokenType }
func (t *AppAccessToken) AccessToken() string    { return t.accessToken }
func (t *AppAccessToken) ClientID() string       { return t.clientID }
func (t *AppAccessToken) Login() string          { return "" }
func (t *AppAccessToken) UserID() string         { return "" }
func (t *AppAccessToken) RefreshToken() string   { return t.refreshToken }
func (t *AppAccessToken) Scopes() []scopes.Scope { return t.scopes }

// RemainingLifetime reports how much of the token's lifetime is left,
// measured against the instant this value was constructed. Clamps at zero.
func (t *AppAccessToken) RemainingLifetime() time.Duration {
	if t.neverExpiring {
		return NeverExpires
	}
	remaining := t.expiresIn - t.now().Sub(t.createdAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsUsable reports whether the token still has lifetime left.
func (t *AppAccessToken) IsUsable() bool { return t.RemainingLifetime() > 0 }

// Refresh exchanges the held refresh token for a new access token, with the
// same prerequisites and atomicity as UserToken.Refresh.
func (t *AppAccessToken) Refresh(ctx context.Context, call httpcall.Caller) error {
	if t.clientSecret == "" {
		return ErrNoClientSecret
	}
	if t.refreshToken == "" {
		return ErrNoRefreshToken
	}

	refreshed, err := refreshGrant(ctx, call, t.refreshToken, t.clientID, t.clientSecret)
	if err != nil {
		return err
	}

	t.accessToken = refreshed.accessToken
	t.expiresIn = refreshed.expiresIn
	t.createdAt = t.now()
	t.refreshToken = refreshed.refreshToken
	return nil
}

func (t *AppAccessToken) now() time.Time {
	if t.nowFunc != nil {
		return t.nowFunc()
	}
	return time.Now()
}
