package driving

import (
	"context"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// AuthService manages the persisted bearer credential and the login
// session lifecycle.
type AuthService interface {
	// Login authenticates and stores the credential.
	Login(ctx context.Context, email, password string) error

	// Register creates an account and stores its credential.
	Register(ctx context.Context, email, password string) error

	// Logout discards the stored credential.
	Logout(ctx context.Context) error

	// Me validates the session with the backend. A 401 discards the
	// credential and returns domain.ErrUnauthenticated.
	Me(ctx context.Context) (*domain.UserProfile, error)

	// IsAuthenticated reports whether a credential is loaded.
	IsAuthenticated() bool
}
