package token_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-twitch-auth/httpcall/callerfake"
	"github.com/jrsteele09/go-twitch-auth/internal/utils"
	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
	"github.com/jrsteele09/go-twitch-auth/token"
)

func refreshableToken(clock *fakeClock) *token.UserToken {
	return token.FromExistingUnchecked(token.UncheckedToken{
		AccessToken:  testAccessToken,
		RefreshToken: testRefreshToken,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Login:        testLogin,
		UserID:       testUserID,
		ExpiresIn:    utils.Ptr(time.Hour),
	}, token.WithNowFunc(clock.Now))
}

func TestRefreshWithoutRefreshTokenMakesNoNetworkCall(t *testing.T) {
	fake := callerfake.New()
	tok := token.FromExistingUnchecked(token.UncheckedToken{
		AccessToken:  testAccessToken,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Login:        testLogin,
		UserID:       testUserID,
		ExpiresIn:    utils.Ptr(time.Hour),
	})

	err := tok.Refresh(context.Background(), fake.Call)
	require.ErrorIs(t, err, token.ErrNoRefreshToken)
	require.Zero(t, fake.CallCount())
}

func TestRefreshWithoutClientSecretMakesNoNetworkCall(t *testing.T) {
	fake := callerfake.New()
	tok := token.FromExistingUnchecked(token.UncheckedToken{
		AccessToken:  testAccessToken,
		RefreshToken: testRefreshToken,
		ClientID:     testClientID,
		Login:        testLogin,
		UserID:       testUserID,
		ExpiresIn:    utils.Ptr(time.Hour),
	})

	err := tok.Refresh(context.Background(), fake.Call)
	require.ErrorIs(t, err, token.ErrNoClientSecret)
	require.Zero(t, fake.CallCount())
}

func TestRefreshReplacesCredentialsAndResetsLifetime(t *testing.T) {
	clock := newFakeClock()
	tok := refreshableToken(clock)
	clock.Advance(50 * time.Minute)

	fake := callerfake.New()
	fake.QueueJSON(http.StatusOK, oauthmodel.TokenResponse{
		AccessToken:  "rotated-access-token",
		RefreshToken: utils.Ptr("rotated-refresh-token"),
		ExpiresIn:    14400,
		TokenType:    "bearer",
	})

	require.NoError(t, tok.Refresh(context.Background(), fake.Call))
	require.Equal(t, "rotated-access-token", tok.AccessToken())
	require.Equal(t, "rotated-refresh-token", tok.RefreshToken())
	require.Equal(t, 4*time.Hour, tok.RemainingLifetime())

	// Identity and client binding survive a refresh untouched.
	require.Equal(t, testLogin, tok.Login())
	require.Equal(t, testClientID, tok.ClientID())

	require.Equal(t, 1, fake.CallCount())
	req := fake.Requests()[0]
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, oauthmodel.TokenURL, req.URL.String())
	form := parseForm(t, req.Body)
	require.Equal(t, oauthmodel.GrantRefreshToken, form.Get("grant_type"))
	require.Equal(t, testRefreshToken, form.Get("refresh_token"))
	require.Equal(t, testClientID, form.Get("client_id"))
	require.Equal(t, testClientSecret, form.Get("client_secret"))
}

func TestRefreshDropsAnOmittedRefreshToken(t *testing.T) {
	tok := refreshableToken(newFakeClock())

	fake := callerfake.New()
	fake.QueueJSON(http.StatusOK, oauthmodel.TokenResponse{
		AccessToken: "rotated-access-token",
		ExpiresIn:   3600,
	})

	require.NoError(t, tok.Refresh(context.Background(), fake.Call))
	require.Empty(t, tok.RefreshToken())

	// Without a refresh token the next attempt fails before the network.
	err := tok.Refresh(context.Background(), fake.Call)
	require.ErrorIs(t, err, token.ErrNoRefreshToken)
	require.Equal(t, 1, fake.CallCount())
}

func TestRefreshFailureLeavesTokenUnchanged(t *testing.T) {
	clock := newFakeClock()
	tok := refreshableToken(clock)
	clock.Advance(10 * time.Minute)

	fake := callerfake.New()
	fake.QueueJSON(http.StatusBadRequest, oauthmodel.ErrorResponse{Status: 400, Message: "Invalid refresh token"})

	err := tok.Refresh(context.Background(), fake.Call)
	var providerErr *token.ProviderError
	require.ErrorAs(t, err, &providerErr)
	require.Equal(t, 400, providerErr.Status)
	require.Equal(t, "Invalid refresh token", providerErr.Message)

	require.Equal(t, testAccessToken, tok.AccessToken())
	require.Equal(t, testRefreshToken, tok.RefreshToken())
	require.Equal(t, 50*time.Minute, tok.RemainingLifetime())
}

func TestRefreshSurfacesUnparseableErrorBodiesWithStatusOnly(t *testing.T) {
	tok := refreshableToken(newFakeClock())

	fake := callerfake.New()
	fake.QueueResponse(http.StatusBadGateway, []byte("<html>upstream exploded</html>"))

	err := tok.Refresh(context.Background(), fake.Call)
	var unrecognized *token.UnrecognizedProviderError
	require.ErrorAs(t, err, &unrecognized)
	require.Equal(t, http.StatusBadGateway, unrecognized.Status)
	require.NotContains(t, err.Error(), "upstream exploded")
}

func TestRefreshPassesTransportErrorsThrough(t *testing.T) {
	tok := refreshableToken(newFakeClock())

	fake := callerfake.New()
	fake.QueueError(io.ErrUnexpectedEOF)

	err := tok.Refresh(context.Background(), fake.Call)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.Equal(t, testAccessToken, tok.AccessToken())
}
