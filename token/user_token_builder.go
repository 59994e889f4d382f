package token

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-twitch-auth/httpcall"
	"github.com/jrsteele09/go-twitch-auth/internal/utils"
	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
	"github.com/jrsteele09/go-twitch-auth/scopes"
)

// UserTokenBuilder drives the OAuth authorization code flow: it produces the
// authorization URL the end user visits, then exchanges the returned code for
// a UserToken. One builder serves exactly one authorization attempt.
//
// The CSRF state returned by GenerateURL must be kept by the caller (session
// state, usually) and passed back to Exchange together with the value the
// redirect carried.
type UserTokenBuilder struct {
	clientID     string
	clientSecret string
	redirectURL  *url.URL
	scopes       []scopes.Scope
	forceVerify  bool
	nonce        string
	csrf         string
	newState     func() string
	logger       zerolog.Logger
	flowID       string
}

// NewUserTokenBuilder creates a builder for the authorization code flow. The
// redirect URL is fixed for the builder's lifetime and echoed in both the
// authorization URL and the code exchange.
func NewUserTokenBuilder(clientID, clientSecret, redirectURL string, options ...BuilderOption) (*UserTokenBuilder, error) {
	redirect, err := url.Parse(redirectURL)
	if err != nil {
		return nil, errors.Wrap(err, "NewUserTokenBuilder parsing redirect url")
	}

	s := newBuilderSettings(options...)
	return &UserTokenBuilder{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirect,
		scopes:       s.scopes,
		forceVerify:  s.forceVerify,
		nonce:        s.nonce,
		newState:     s.newState,
		logger:       s.logger,
		flowID:       uuid.NewString(),
	}, nil
}

// AddScope requests an additional scope. Call before GenerateURL.
func (b *UserTokenBuilder) AddScope(s scopes.Scope) {
	b.scopes = append(b.scopes, s)
}

// GenerateURL produces the authorization URL and the CSRF state bound to it.
// The state is also stored on the builder for the later Exchange; generating
// a second URL overwrites it, so the earlier URL can no longer be exchanged.
func (b *UserTokenBuilder) GenerateURL() (string, string) {
	state := b.newState()
	b.csrf = state

	authURL := authorizeURL(authorizeParams{
		clientID:     b.clientID,
		redirectURL:  b.redirectURL,
		responseType: oauthmodel.ResponseTypeCode,
		scopes:       b.scopes,
		state:        state,
		forceVerify:  b.forceVerify,
		nonce:        b.nonce,
	})

	b.logger.Debug().
		Str("flow_id", b.flowID).
		Str("scope", scopes.Join(b.scopes)).
		Bool("force_verify", b.forceVerify).
		Msg("authorization url generated")

	return authURL, state
}

// Exchange trades the authorization code for a UserToken. The CSRF state is
// checked before anything goes over the wire, and the stored state is
// consumed: a second Exchange fails with ErrStateMismatch.
func (b *UserTokenBuilder) Exchange(ctx context.Context, call httpcall.Caller, state, code string) (*UserToken, error) {
	if !matchState(b.csrf, state) {
		return nil, ErrStateMismatch
	}
	b.csrf = ""

	form := url.Values{}
	form.Set("grant_type", oauthmodel.GrantAuthorizationCode)
	form.Set("code", code)
	form.Set("client_id", b.clientID)
	form.Set("client_secret", b.clientSecret)
	form.Set("redirect_uri", b.redirectURL.String())

	resp, err := postGrant(ctx, call, form)
	if err != nil {
		return nil, err
	}
	tokenResp, err := decodeTokenResponse(resp)
	if err != nil {
		b.logger.Warn().Str("flow_id", b.flowID).Msg("code exchange rejected by provider")
		return nil, err
	}

	// The client secret is consumed into the entity so the token can refresh
	// itself later.
	userToken, err := FromExisting(ctx, call, tokenResp.AccessToken, utils.Value(tokenResp.RefreshToken), b.clientSecret)
	if err != nil {
		return nil, err
	}
	userToken.idToken = utils.Value(tokenResp.IdToken)

	b.logger.Info().
		Str("flow_id", b.flowID).
		Str("login", userToken.Login()).
		Msg("user token acquired")

	return userToken, nil
}
