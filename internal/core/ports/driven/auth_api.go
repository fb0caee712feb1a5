package driven

import (
	"context"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// AuthAPI is the authentication surface of the backend.
type AuthAPI interface {
	// Login exchanges email and password for a bearer credential.
	Login(ctx context.Context, email, password string) (*domain.Credential, error)

	// Register creates an account and returns its first credential.
	Register(ctx context.Context, email, password string) (*domain.Credential, error)

	// Me validates the current credential and returns the user profile.
	Me(ctx context.Context) (*domain.UserProfile, error)
}

// TokenSource supplies the bearer token attached to authenticated
// requests. An empty token means the request is sent unauthenticated.
type TokenSource interface {
	// Token returns the current access token, or "" when logged out.
	Token(ctx context.Context) string
}
