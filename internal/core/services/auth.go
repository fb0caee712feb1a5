package services

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
	"github.com/judelwin/smart-study-assistant/internal/logger"
)

// Ensure AuthService implements the interfaces.
var (
	_ driving.AuthService = (*AuthService)(nil)
	_ driven.TokenSource  = (*AuthService)(nil)
)

// AuthService owns the bearer credential: it exchanges email/password
// for a token, persists it across runs and serves it to the HTTP client
// as a TokenSource. A 401 on any session call discards the credential.
type AuthService struct {
	api   driven.AuthAPI
	store driven.CredentialStore

	mu   sync.Mutex
	cred *domain.Credential
}

// NewAuthService creates an auth service and loads any persisted
// credential. A load failure is logged, not fatal: the user simply has
// to log in again.
func NewAuthService(ctx context.Context, api driven.AuthAPI, store driven.CredentialStore) *AuthService {
	s := &AuthService{api: api, store: store}
	cred, err := store.Load(ctx)
	if err != nil {
		logger.Warn("could not load stored credential: %v", err)
		return s
	}
	if cred != nil && cred.IsAuthenticated() {
		s.cred = cred
		logger.Debug("restored credential for %s", cred.Email)
	}
	return s
}

// Login authenticates and stores the credential. A 401 maps to
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	cred, err := s.api.Login(ctx, email, password)
	if err != nil {
		if apiErr, ok := domain.IsAPIError(err); ok && apiErr.StatusCode == http.StatusUnauthorized {
			return domain.ErrInvalidCredentials
		}
		return err
	}
	return s.adopt(ctx, email, cred)
}

// Register creates an account and stores its first credential.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	cred, err := s.api.Register(ctx, email, password)
	if err != nil {
		return err
	}
	return s.adopt(ctx, email, cred)
}

// adopt records and persists a freshly issued credential.
func (s *AuthService) adopt(ctx context.Context, email string, cred *domain.Credential) error {
	cred.Email = email
	if cred.ObtainedAt.IsZero() {
		cred.ObtainedAt = time.Now()
	}
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	if err := s.store.Save(ctx, *cred); err != nil {
		// The session still works for this run; only persistence failed.
		logger.Warn("could not persist credential: %v", err)
	}
	logger.Info("logged in as %s", email)
	return nil
}

// Logout discards the in-memory and persisted credential.
func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

// Me validates the session with the backend and returns the profile.
// A 401 means the stored token expired or was revoked: the credential is
// discarded and domain.ErrUnauthenticated returned.
func (s *AuthService) Me(ctx context.Context) (*domain.UserProfile, error) {
	profile, err := s.api.Me(ctx)
	if err != nil {
		if apiErr, ok := domain.IsAPIError(err); ok && apiErr.StatusCode == http.StatusUnauthorized {
			logger.Info("stored credential rejected, logging out")
			if clearErr := s.Logout(ctx); clearErr != nil {
				logger.Warn("could not clear stale credential: %v", clearErr)
			}
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return profile, nil
}

// IsAuthenticated reports whether a credential is loaded.
func (s *AuthService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred != nil && s.cred.IsAuthenticated()
}

// Token implements driven.TokenSource for the HTTP client.
func (s *AuthService) Token(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return ""
	}
	return s.cred.AccessToken
}
