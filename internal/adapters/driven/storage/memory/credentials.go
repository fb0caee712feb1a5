// Package memory provides in-memory implementations of the local
// storage ports for tests and ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore holds the credential in memory only.
type CredentialStore struct {
	mu   sync.Mutex
	cred *domain.Credential

	// SaveErr, LoadErr and ClearErr are injected failures for tests.
	SaveErr  error
	LoadErr  error
	ClearErr error
}

// NewCredentialStore creates an empty store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Save implements driven.CredentialStore.
func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.cred = &cred
	return nil
}

// Load implements driven.CredentialStore.
func (s *CredentialStore) Load(_ context.Context) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.cred == nil {
		return nil, nil
	}
	cred := *s.cred
	return &cred, nil
}

// Clear implements driven.CredentialStore.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.cred = nil
	return nil
}
