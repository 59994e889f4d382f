package token

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-twitch-auth/httpcall"
	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
	"github.com/jrsteele09/go-twitch-auth/scopes"
)

// ImplicitTokenBuilder drives the OAuth implicit flow, where the provider
// hands the access token straight back in the redirect fragment. The flow
// does not authenticate the client, so there is no client secret and the
// resulting token can never be refreshed.
type ImplicitTokenBuilder struct {
	clientID    string
	redirectURL *url.URL
	scopes      []scopes.Scope
	forceVerify bool
	nonce       string
	csrf        string
	newState    func() string
	logger      zerolog.Logger
	flowID      string
}

// NewImplicitTokenBuilder creates a builder for the implicit flow.
func NewImplicitTokenBuilder(clientID, redirectURL string, options ...BuilderOption) (*ImplicitTokenBuilder, error) {
	redirect, err := url.Parse(redirectURL)
	if err != nil {
		return nil, errors.Wrap(err, "NewImplicitTokenBuilder parsing redirect url")
	}

	s := newBuilderSettings(options...)
	return &ImplicitTokenBuilder{
		clientID:    clientID,
		redirectURL: redirect,
		scopes:      s.scopes,
		forceVerify: s.forceVerify,
		nonce:       s.nonce,
		newState:    s.newState,
		logger:      s.logger,
		flowID:      uuid.NewString(),
	}, nil
}

// AddScope requests an additional scope. Call before GenerateURL.
func (b *ImplicitTokenBuilder) AddScope(s scopes.Scope) {
	b.scopes = append(b.scopes, s)
}

// GenerateURL produces the authorization URL and the CSRF state bound to it.
// Same contract as UserTokenBuilder.GenerateURL, but the provider returns the
// token directly in the redirect fragment instead of a code.
func (b *ImplicitTokenBuilder) GenerateURL() (string, string) {
	state := b.newState()
	b.csrf = state

	authURL := authorizeURL(authorizeParams{
		clientID:     b.clientID,
		redirectURL:  b.redirectURL,
		responseType: oauthmodel.ResponseTypeToken,
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

// Exchange consumes the callback values. Pass accessToken, errorCode and
// errorDescription as "" when the corresponding parameter was absent from the
// callback.
//
// Exactly one outcome is a token: accessToken present with both error fields
// absent. Error fields present yield a CallbackError; a callback with neither
// a token nor an error is ErrMalformedCallback. The CSRF check and the shape
// check both happen before any network call.
func (b *ImplicitTokenBuilder) Exchange(ctx context.Context, call httpcall.Caller, state, accessToken, errorCode, errorDescription string) (*UserToken, error) {
	if !matchState(b.csrf, state) {
		return nil, ErrStateMismatch
	}
	b.csrf = ""

	switch {
	case accessToken != "" && errorCode == "" && errorDescription == "":
		// Validated with no refresh token and no client secret: the token is
		// incapable of refresh.
		userToken, err := FromExisting(ctx, call, accessToken, "", "")
		if err != nil {
			return nil, err
		}
		b.logger.Info().
			Str("flow_id", b.flowID).
			Str("login", userToken.Login()).
			Msg("user token acquired")
		return userToken, nil

	case errorCode == "" && errorDescription == "":
		return nil, ErrMalformedCallback

	default:
		b.logger.Warn().
			Str("flow_id", b.flowID).
			Str("error", errorCode).
			Msg("authorization denied by provider")
		return nil, &CallbackError{Code: errorCode, Description: errorDescription}
	}
}
