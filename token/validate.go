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
	"github.com/jrsteele09/go-twitch-auth/scopes"
)

// Validation is what the validate endpoint reports for a live access token.
type Validation struct {
	ClientID string
	// Login and UserID are empty for app access tokens.
	Login  string
	UserID string
	Scopes []scopes.Scope
	// ExpiresIn as reported by the server. Exactly zero means the token
	// never expires.
	ExpiresIn time.Duration
}

// Validate asks the provider whether accessToken is still good and who it
// belongs to. An outright rejection surfaces as ErrNotAuthorized.
func Validate(ctx context.Context, call httpcall.Caller, accessToken string) (*Validation, error) {
	endpoint, err := url.Parse(oauthmodel.ValidateURL)
	if err != nil {
		return nil, errors.Wrap(err, "token.Validate parsing endpoint")
	}

	header := http.Header{}
	header.Set("Authorization", "OAuth "+accessToken)

	resp, err := call(ctx, &httpcall.Request{Method: http.MethodGet, URL: endpoint, Header: header})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrNotAuthorized
	}
	if err := providerFailure(resp); err != nil {
		return nil, err
	}

	var body oauthmodel.ValidationResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, errors.Wrap(err, "token.Validate decoding response")
	}

	return &Validation{
		ClientID:  body.ClientID,
		Login:     utils.Value(body.Login),
		UserID:    utils.Value(body.UserID),
		Scopes:    scopes.FromStrings(body.Scopes),
		ExpiresIn: time.Duration(body.ExpiresIn) * time.Second,
	}, nil
}
