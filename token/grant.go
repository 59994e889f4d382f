package token

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-auth/httpcall"
	"github.com/jrsteele09/go-twitch-auth/internal/utils"
	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
)

// postGrant sends a form-encoded grant exchange to the token endpoint.
// Transport failures pass through unchanged; no retries are performed, ever -
// retry policy belongs to whatever drives the Caller.
func postGrant(ctx context.Context, call httpcall.Caller, form url.Values) (*httpcall.Response, error) {
	endpoint, err := url.Parse(oauthmodel.TokenURL)
	if err != nil {
		return nil, errors.Wrap(err, "token.postGrant parsing endpoint")
	}

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	header.Set("Accept", "application/json")

	return call(ctx, &httpcall.Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: header,
		Body:   []byte(form.Encode()),
	})
}

// providerFailure maps a non-success response onto the provider error
// taxonomy: a parseable {status, message} body becomes a ProviderError,
// anything else an UnrecognizedProviderError with the body withheld.
func providerFailure(resp *httpcall.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body oauthmodel.ErrorResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Message == "" {
		return &UnrecognizedProviderError{Status: resp.StatusCode}
	}

	status := body.Status
	if status == 0 {
		status = resp.StatusCode
	}
	return &ProviderError{Status: status, Message: body.Message}
}

func decodeTokenResponse(resp *httpcall.Response) (*oauthmodel.TokenResponse, error) {
	if err := providerFailure(resp); err != nil {
		return nil, err
	}
	var tokenResp oauthmodel.TokenResponse
	if err := json.Unmarshal(resp.Body, &tokenResp); err != nil {
		return nil, errors.Wrap(err, "token.decodeTokenResponse")
	}
	return &tokenResp, nil
}

type refreshedToken struct {
	accessToken  string
	refreshToken string
	expiresIn    time.Duration
}

// refreshGrant performs the refresh_token grant exchange and returns the new
// credential set without touching any entity state.
func refreshGrant(ctx context.Context, call httpcall.Caller, refreshToken, clientID, clientSecret string) (*refreshedToken, error) {
	form := url.Values{}
	form.Set("grant_type", oauthmodel.GrantRefreshToken)
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)

	resp, err := postGrant(ctx, call, form)
	if err != nil {
		return nil, err
	}
	tokenResp, err := decodeTokenResponse(resp)
	if err != nil {
		return nil, err
	}

	return &refreshedToken{
		accessToken:  tokenResp.AccessToken,
		refreshToken: utils.Value(tokenResp.RefreshToken),
		expiresIn:    time.Duration(tokenResp.ExpiresIn) * time.Second,
	}, nil
}
