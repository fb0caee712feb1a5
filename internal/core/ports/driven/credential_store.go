package driven

import (
	"context"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// CredentialStore persists the single bearer credential across runs.
// It is the only client-side state that survives a restart.
type CredentialStore interface {
	// Save stores the credential, replacing any previous one.
	Save(ctx context.Context, cred domain.Credential) error

	// Load returns the stored credential, or nil if none is stored.
	Load(ctx context.Context) (*domain.Credential, error)

	// Clear removes the stored credential. Clearing an empty store is
	// not an error.
	Clear(ctx context.Context) error
}
