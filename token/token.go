// Package token acquires, validates, refreshes and tracks the lifetime of
// Twitch OAuth2 bearer tokens.
//
// Every network operation takes an injected httpcall.Caller; the package
// never creates clients, retries or timeouts of its own.
package token

import (
	"context"
	"math"
	"time"

	"github.com/jrsteele09/go-twitch-auth/httpcall"
	"github.com/jrsteele09/go-twitch-auth/internal/utils"
	"github.com/jrsteele09/go-twitch-auth/scopes"
)

// Type tags the two token kinds this package produces.
type Type string

const (
	UserTokenType Type = "user"
	AppTokenType  Type = "app"
)

// NeverExpires is the remaining lifetime reported for tokens whose issuing
// server declared no expiry (legacy client ids).
const NeverExpires = time.Duration(math.MaxInt64)

// Bearer is implemented by every token kind.
type Bearer interface {
	TokenType() Type
	AccessToken() string
	ClientID() string
	// Login and UserID return "" for tokens without an authenticated user.
	Login() string
	UserID() string
	Scopes() []scopes.Scope
	RemainingLifetime() time.Duration
	Refresh(ctx context.Context, call httpcall.Caller) error
}

// TokenOption configures token construction.
type TokenOption func(*tokenConfig)

type tokenConfig struct {
	nowFunc func() time.Time
}

// WithNowFunc sets the clock used for lifetime arithmetic (primarily for
// testing).
func WithNowFunc(now func() time.Time) TokenOption {
	return func(c *tokenConfig) {
		c.nowFunc = now
	}
}

func applyTokenOptions(options []TokenOption) tokenConfig {
	c := tokenConfig{nowFunc: time.Now}
	for _, opt := range options {
		opt(&c)
	}
	return c
}

// UserToken is a bearer token bound to an authenticated Twitch user, produced
// by the authorization code or implicit flow.
type UserToken struct {
	accessToken  string
	clientID     string
	clientSecret string
	login        string
	userID       string
	refreshToken string
	idToken      string
	// expiresIn is valid as of createdAt: when this value was constructed,
	// not when the server issued the token.
	expiresIn     time.Duration
	createdAt     time.Time
	scopes        []scopes.Scope
	neverExpiring bool
	nowFunc       func() time.Time
}

var _ Bearer = (*UserToken)(nil)

// UncheckedToken carries everything needed to rehydrate a UserToken without
// consulting the validation endpoint.
//
// The remaining lifetime is computed from the moment of rehydration, not from
// when the server issued the token. Callers persisting tokens across process
// restarts should pass the remaining duration they believe is left, or
// re-validate with FromExisting. A nil ExpiresIn marks the token as never
// expiring.
type UncheckedToken struct {
	AccessToken  string
	RefreshToken string
	ClientID     string
	ClientSecret string
	Login        string
	UserID       string
	Scopes       []scopes.Scope
	ExpiresIn    *time.Duration
}

// FromExistingUnchecked assembles a UserToken without any checks.
func FromExistingUnchecked(unchecked UncheckedToken, options ...TokenOption) *UserToken {
	cfg := applyTokenOptions(options)
	t := &UserToken{
		accessToken:   unchecked.AccessToken,
		clientID:      unchecked.ClientID,
		clientSecret:  unchecked.ClientSecret,
		login:         unchecked.Login,
		userID:        unchecked.UserID,
		refreshToken:  unchecked.RefreshToken,
		expiresIn:     utils.Value(unchecked.ExpiresIn),
		scopes:        unchecked.Scopes,
		neverExpiring: unchecked.ExpiresIn == nil,
		nowFunc:       cfg.nowFunc,
	}
	t.createdAt = t.now()
	return t
}

// FromExisting validates accessToken and assembles a UserToken from what the
// validation endpoint reports. It fails with ErrNotAuthorized when the token
// is invalid, and with ErrNoLogin/ErrNoUserID when the token carries no user
// identity.
func FromExisting(ctx context.Context, call httpcall.Caller, accessToken, refreshToken, clientSecret string, options ...TokenOption) (*UserToken, error) {
	validated, err := Validate(ctx, call, accessToken)
	if err != nil {
		return nil, err
	}
	if validated.Login == "" {
		return nil, ErrNoLogin
	}
	if validated.UserID == "" {
		return nil, ErrNoUserID
	}

	// A reported lifetime of exactly zero means the token never expires: the
	// validation endpoint rejects an actually expired token with an
	// authorization failure instead.
	var expiresIn *time.Duration
	if validated.ExpiresIn != 0 {
		expiresIn = utils.Ptr(validated.ExpiresIn)
	}

	return FromExistingUnchecked(UncheckedToken{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ClientID:     validated.ClientID,
		ClientSecret: clientSecret,
		Login:        validated.Login,
		UserID:       validated.UserID,
		Scopes:       validated.Scopes,
		ExpiresIn:    expiresIn,
	}, options...), nil
}

func (t *UserToken) TokenType() Type       { return UserTokenType }
func (t *UserToken) AccessToken() string   { return t.accessToken }
func (t *UserToken) ClientID() string      { return t.clientID }
func (t *UserToken) Login() string         { return t.login }
func (t *UserToken) UserID() string        { return t.userID }
func (t *UserToken) RefreshToken() string  { return t.refreshToken }
func (t *UserToken) IDToken() string       { return t.idToken }
func (t *UserToken) Scopes() []scopes.Scope { return t.scopes }

// NeverExpires reports whether the issuing server declared no expiry for this
// token.
func (t *UserToken) NeverExpires() bool { return t.neverExpiring }

// RemainingLifetime reports how much of the token's lifetime is left,
// measured against the instant this value was constructed. It clamps at zero
// and never goes negative.
func (t *UserToken) RemainingLifetime() time.Duration {
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
func (t *UserToken) IsUsable() bool { return t.RemainingLifetime() > 0 }

// SetClientSecret attaches a client secret after construction, enabling
// refresh for tokens rehydrated without one. Pass "" to detach.
func (t *UserToken) SetClientSecret(secret string) { t.clientSecret = secret }

// Refresh exchanges the held refresh token for a new access token. The
// prerequisites are checked before any network call; when the exchange fails
// the token is left exactly as it was.
func (t *UserToken) Refresh(ctx context.Context, call httpcall.Caller) error {
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
	// The server may rotate the refresh token or withhold it entirely; a
	// token that came back without one cannot be refreshed again.
	t.refreshToken = refreshed.refreshToken
	return nil
}

func (t *UserToken) now() time.Time {
	if t.nowFunc != nil {
		return t.nowFunc()
	}
	return time.Now()
}
