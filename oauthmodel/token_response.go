// Package oauthmodel holds the wire shapes exchanged with the Twitch OAuth2
// endpoints, plus the endpoint and grant-type constants.
package oauthmodel

// TokenResponse represents the response from the token endpoint.
// This is the standard OAuth2 token response format as defined in RFC 6749,
// returned for all grant types.
type TokenResponse struct {
	// AccessToken is the bearer credential used to authenticate API requests.
	// Usage: "Authorization: Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Only present: For grants that support refresh (authorization_code).
	// Behavior: Rotates - the previous refresh token is invalidated
	RefreshToken *string `json:"refresh_token,omitempty"`

	// IdToken is the OpenID Connect ID token with user identity claims.
	// Only present: When the "openid" scope was requested
	IdToken *string `json:"id_token,omitempty"`

	// TokenType indicates how to present the token (always "bearer" here).
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime of the access token in seconds.
	ExpiresIn int64 `json:"expires_in,omitempty"`

	// Scope lists the granted permissions. Twitch returns these as a JSON
	// array rather than the space separated string RFC 6749 suggests.
	Scope []string `json:"scope,omitempty"`
}

// ValidationResponse is the body the validate endpoint returns for a token it
// accepts. Login and UserID are absent for app access tokens.
type ValidationResponse struct {
	ClientID  string   `json:"client_id"`
	Login     *string  `json:"login,omitempty"`
	UserID    *string  `json:"user_id,omitempty"`
	Scopes    []string `json:"scopes,omitempty"`
	ExpiresIn int64    `json:"expires_in"`
}
