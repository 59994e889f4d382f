package oauthmodel

import "golang.org/x/oauth2/endpoints"

// Authorize and token endpoints come from golang.org/x/oauth2 so they stay in
// step with the ecosystem. The validate endpoint and the OIDC issuer are not
// modelled there.
var (
	AuthURL  = endpoints.Twitch.AuthURL
	TokenURL = endpoints.Twitch.TokenURL
)

const (
	ValidateURL = "https://id.twitch.tv/oauth2/validate"
	Issuer      = "https://id.twitch.tv/oauth2"
)

// Grant types accepted by the token endpoint.
const (
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
	GrantClientCredentials = "client_credentials"
)

// Response types accepted by the authorization endpoint.
const (
	ResponseTypeCode  = "code"
	ResponseTypeToken = "token"
)
