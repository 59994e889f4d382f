package token_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-twitch-auth/httpcall/callerfake"
	"github.com/jrsteele09/go-twitch-auth/internal/utils"
	"github.com/jrsteele09/go-twitch-auth/oauthmodel"
)

func parseForm(t *testing.T, body []byte) url.Values {
	t.Helper()
	form, err := url.ParseQuery(string(body))
	require.NoError(t, err)
	return form
}

// queueValidationOK scripts the validate endpoint response FromExisting will
// consume after a successful grant exchange.
func queueValidationOK(fake *callerfake.FakeCaller, expiresIn int64) {
	fake.QueueJSON(http.StatusOK, oauthmodel.ValidationResponse{
		ClientID:  testClientID,
		Login:     utils.Ptr(testLogin),
		UserID:    utils.Ptr(testUserID),
		Scopes:    []string{"chat:read"},
		ExpiresIn: expiresIn,
	})
}
