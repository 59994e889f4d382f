// Package scopes models the permission strings attached to a Twitch OAuth2
// token.
package scopes

import "strings"

// Scope is a single permission string, for example "chat:read".
type Scope string

// Commonly requested scopes. This is not the full catalogue - any string the
// authorization endpoint accepts works.
const (
	BitsRead                 Scope = "bits:read"
	ChannelModerate          Scope = "channel:moderate"
	ChannelReadSubscriptions Scope = "channel:read:subscriptions"
	ChatEdit                 Scope = "chat:edit"
	ChatRead                 Scope = "chat:read"
	ModeratorReadFollowers   Scope = "moderator:read:followers"
	OpenID                   Scope = "openid"
	UserReadEmail            Scope = "user:read:email"
	WhispersEdit             Scope = "whispers:edit"
	WhispersRead             Scope = "whispers:read"
)

func (s Scope) String() string {
	return string(s)
}

// Join renders scopes the way the authorization and token endpoints expect
// them: space separated, in request order.
func Join(s []Scope) string {
	return strings.Join(Strings(s), " ")
}

// Split parses a space separated scope list, dropping empty entries.
func Split(raw string) []Scope {
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return nil
	}
	return FromStrings(parts)
}

// FromStrings converts a plain string slice, as returned by the token and
// validation endpoints.
func FromStrings(raw []string) []Scope {
	if raw == nil {
		return nil
	}
	s := make([]Scope, 0, len(raw))
	for _, v := range raw {
		if strings.TrimSpace(v) == "" {
			continue
		}
		s = append(s, Scope(v))
	}
	return s
}

// Strings converts scopes back to a plain string slice.
func Strings(s []Scope) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		out = append(out, string(v))
	}
	return out
}
