package domain

import "time"

// UserProfile is the authenticated user's account information as reported
// by the auth service.
type UserProfile struct {
	// ID is the user's unique identifier.
	ID string `json:"id"`

	// Email is the login email address.
	Email string `json:"email"`

	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"created_at"`
}

// Credential is the bearer credential obtained at login. It is the only
// piece of state the client persists across runs.
type Credential struct {
	// AccessToken is the bearer token presented on authenticated requests.
	AccessToken string `json:"access_token"`

	// TokenType is typically "bearer".
	TokenType string `json:"token_type"`

	// Email is the account the token was issued for, kept for display.
	Email string `json:"email,omitempty"`

	// ObtainedAt is when the token was issued to this client.
	ObtainedAt time.Time `json:"obtained_at"`
}

// IsAuthenticated reports whether the credential carries a token.
// Expiry is not tracked client-side; the auth service answers 401 when
// the token has lapsed and the credential is then discarded.
func (c *Credential) IsAuthenticated() bool {
	return c != nil && c.AccessToken != ""
}
