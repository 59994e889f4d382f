package token_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-twitch-auth/httpcall/callerfake"
	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
	"github.com/jrsteele09/go-twitch-auth/scopes"
	"github.com/jrsteele09/go-twitch-auth/token"
)

func newImplicitBuilder(t *testing.T, options ...token.BuilderOption) *token.ImplicitTokenBuilder {
	t.Helper()
	builder, err := token.NewImplicitTokenBuilder(testClientID, testRedirectURL, options...)
	require.NoError(t, err)
	return builder
}

func TestImplicitGenerateURLRequestsATokenResponse(t *testing.T) {
	builder := newImplicitBuilder(t, token.WithScopes(scopes.ChatRead, scopes.ChatEdit))

	rawURL, state := builder.GenerateURL()
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	q := parsed.Query()
	require.Equal(t, oauthmodel.ResponseTypeToken, q.Get("response_type"))
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, "chat:read chat:edit", q.Get("scope"))
	require.Equal(t, state, q.Get("state"))
	require.Equal(t, "false", q.Get("force_verify"))
	require.Empty(t, q.Get("client_secret"))
}

func TestImplicitExchangeProducesAnUnrefreshableToken(t *testing.T) {
	builder := newImplicitBuilder(t)
	_, state := builder.GenerateURL()

	fake := callerfake.New()
	queueValidationOK(fake, 3600)

	tok, err := builder.Exchange(context.Background(), fake.Call, state, "abc", "", "")
	require.NoError(t, err)
	require.Equal(t, "abc", tok.AccessToken())
	require.Empty(t, tok.RefreshToken())

	err = tok.Refresh(context.Background(), fake.Call)
	require.ErrorIs(t, err, token.ErrNoClientSecret)
	require.Equal(t, 1, fake.CallCount())
}

func TestImplicitExchangeSurfacesCallbackErrors(t *testing.T) {
	builder := newImplicitBuilder(t)
	_, state := builder.GenerateURL()

	fake := callerfake.New()
	_, err := builder.Exchange(context.Background(), fake.Call, state, "", "access_denied", "The user denied you access")

	var callbackErr *token.CallbackError
	require.ErrorAs(t, err, &callbackErr)
	require.Equal(t, "access_denied", callbackErr.Code)
	require.Equal(t, "The user denied you access", callbackErr.Description)
	require.Zero(t, fake.CallCount())
}

func TestImplicitExchangeWithTokenAndErrorIsACallbackError(t *testing.T) {
	builder := newImplicitBuilder(t)
	_, state := builder.GenerateURL()

	fake := callerfake.New()
	_, err := builder.Exchange(context.Background(), fake.Call, state, "abc", "access_denied", "")

	var callbackErr *token.CallbackError
	require.ErrorAs(t, err, &callbackErr)
	require.Zero(t, fake.CallCount())
}

func TestImplicitExchangeWithNothingIsMalformed(t *testing.T) {
	builder := newImplicitBuilder(t)
	_, state := builder.GenerateURL()

	fake := callerfake.New()
	_, err := builder.Exchange(context.Background(), fake.Call, state, "", "", "")
	require.ErrorIs(t, err, token.ErrMalformedCallback)
	require.Zero(t, fake.CallCount())
}

func TestImplicitExchangeChecksStateFirst(t *testing.T) {
	builder := newImplicitBuilder(t)
	builder.GenerateURL()

	fake := callerfake.New()
	_, err := builder.Exchange(context.Background(), fake.Call, "wrong-state", "abc", "", "")
	require.ErrorIs(t, err, token.ErrStateMismatch)
	require.Zero(t, fake.CallCount())

	_, err = newImplicitBuilder(t).Exchange(context.Background(), fake.Call, "", "abc", "", "")
	require.ErrorIs(t, err, token.ErrStateMismatch)
	require.Zero(t, fake.CallCount())
}

func TestWithStateGeneratorControlsTheIssuedState(t *testing.T) {
	builder := newImplicitBuilder(t, token.WithStateGenerator(func() string { return "fixed-state" }))

	_, state := builder.GenerateURL()
	require.Equal(t, "fixed-state", state)

	fake := callerfake.New()
	queueValidationOK(fake, 3600)
	_, err := builder.Exchange(context.Background(), fake.Call, "fixed-state", "abc", "", "")
	require.NoError(t, err)
}
