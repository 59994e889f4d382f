package token

import (
	"crypto/subtle"
	"net/url"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
	"github.com/jrsteele09/go-twitch-auth/scopes"
)

// builderSettings collects the options shared by both flow builders.
type builderSettings struct {
	scopes      []scopes.Scope
	forceVerify bool
	nonce       string
	newState    func() string
	logger      zerolog.Logger
}

// BuilderOption configures a flow builder at construction.
type BuilderOption func(*builderSettings)

// WithScopes sets the requested scopes.
func WithScopes(s ...scopes.Scope) BuilderOption {
	return func(b *builderSettings) {
		b.scopes = s
	}
}

// WithForceVerify makes the identity provider re-prompt for login even when
// the user already has a session, letting them switch accounts.
func WithForceVerify(force bool) BuilderOption {
	return func(b *builderSettings) {
		b.forceVerify = force
	}
}

// WithNonce sets the OIDC nonce echoed back in the id_token. Only meaningful
// together with the openid scope.
func WithNonce(nonce string) BuilderOption {
	return func(b *builderSettings) {
		b.nonce = nonce
	}
}

// WithLogger attaches a logger for flow lifecycle events. Token material is
// never logged.
func WithLogger(logger zerolog.Logger) BuilderOption {
	return func(b *builderSettings) {
		b.logger = logger
	}
}

// WithStateGenerator overrides CSRF state generation (primarily for testing).
func WithStateGenerator(newState func() string) BuilderOption {
	return func(b *builderSettings) {
		b.newState = newState
	}
}

func newBuilderSettings(options ...BuilderOption) builderSettings {
	s := builderSettings{
		newState: oauth2.GenerateVerifier,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(&s)
	}
	return s
}

type authorizeParams struct {
	clientID     string
	redirectURL  *url.URL
	responseType string
	scopes       []scopes.Scope
	state        string
	forceVerify  bool
	nonce        string
}

func authorizeURL(p authorizeParams) string {
	q := url.Values{}
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.redirectURL.String())
	q.Set("response_type", p.responseType)
	q.Set("state", p.state)
	if len(p.scopes) > 0 {
		q.Set("scope", scopes.Join(p.scopes))
	}
	// Twitch expects the literal strings "true" / "false" here.
	if p.forceVerify {
		q.Set("force_verify", "true")
	} else {
		q.Set("force_verify", "false")
	}
	if p.nonce != "" {
		q.Set("nonce", p.nonce)
	}
	return oauthmodel.AuthURL + "?" + q.Encode()
}

// matchState compares the returned state against the stored CSRF secret in
// constant time. An empty stored value means no URL was ever generated, or
// the builder was already consumed.
func matchState(stored, returned string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(returned)) == 1
}
