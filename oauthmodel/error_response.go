package oauthmodel

// ErrorResponse is the structured error body the provider returns on a
// failed request, e.g. {"status": 400, "message": "Invalid refresh token"}.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
