package token

import (
	"errors"
	"fmt"
)

// Sentinel failures surfaced by token assembly, refresh and the interactive
// flows. All of them are inspectable with errors.Is.
var (
	// ErrNotAuthorized is returned when the validation endpoint rejects the
	// access token outright.
	ErrNotAuthorized = errors.New("token is not authorized")

	// ErrNoLogin and ErrNoUserID mean validation succeeded but omitted the
	// identity fields a user token requires - the token is most likely an
	// app access token.
	ErrNoLogin  = errors.New("validation response contained no login")
	ErrNoUserID = errors.New("validation response contained no user id")

	// ErrNoRefreshToken and ErrNoClientSecret are the refresh prerequisites.
	// Both are checked before anything goes over the wire.
	ErrNoRefreshToken = errors.New("no refresh token held")
	ErrNoClientSecret = errors.New("no client secret held")

	// ErrStateMismatch covers every failed CSRF check: a mutated state value,
	// an exchange before any URL was generated, or a builder reused after a
	// completed exchange.
	ErrStateMismatch = errors.New("csrf state mismatch")

	// ErrMalformedCallback is an implicit flow callback that carried neither
	// an access token nor an error.
	ErrMalformedCallback = errors.New("callback carried neither an access token nor an error")
)

// ProviderError is a non-success response from the provider with a parseable
// {status, message} body.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Status, e.Message)
}

// UnrecognizedProviderError is a non-success response whose body could not be
// parsed. The body is withheld: a misconfigured provider can reflect request
// material back, and that must never reach logs or error chains.
type UnrecognizedProviderError struct {
	Status int
}

func (e *UnrecognizedProviderError) Error() string {
	return fmt.Sprintf("provider error %d: <censored>", e.Status)
}

// CallbackError carries the error fields the provider appended to an implicit
// flow redirect.
type CallbackError struct {
	Code        string
	Description string
}

func (e *CallbackError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider callback error: %s", e.Code)
	}
	return fmt.Sprintf("provider callback error: %s: %s", e.Code, e.Description)
}
